package mediaplan

import (
	"context"
)

type RepositoryStub struct {
	plans      map[string]MediaPlan
	nextItemId int
}

func NewStubMediaPlanRepo() *RepositoryStub {
	return &RepositoryStub{plans: map[string]MediaPlan{}, nextItemId: 1}
}

func (s *RepositoryStub) CreatePlan(ctx context.Context, plan MediaPlan) (MediaPlan, error) {
	for i := range plan.Versions {
		for j := range plan.Versions[i].LineItems {
			plan.Versions[i].LineItems[j].Id = s.nextItemId
			s.nextItemId++
		}
	}
	s.plans[plan.MbaNumber] = plan
	return plan, nil
}

func (s *RepositoryStub) GetPlan(ctx context.Context, mbaNumber string) (MediaPlan, error) {
	if plan, ok := s.plans[mbaNumber]; ok {
		return plan, nil
	}
	return MediaPlan{}, ErrPlanNotFound
}

func (s *RepositoryStub) ListPlans(ctx context.Context) ([]MediaPlan, error) {
	plans := make([]MediaPlan, 0, len(s.plans))
	for _, plan := range s.plans {
		plan.Versions = nil
		plans = append(plans, plan)
	}
	return plans, nil
}

func (s *RepositoryStub) ListPlansByClient(ctx context.Context, clientSlug string) ([]MediaPlan, error) {
	var plans []MediaPlan
	for _, plan := range s.plans {
		if plan.ClientSlug == clientSlug {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

func (s *RepositoryStub) UpdatePlan(ctx context.Context, plan MediaPlan) (MediaPlan, error) {
	existing, ok := s.plans[plan.MbaNumber]
	if !ok {
		return MediaPlan{}, ErrPlanNotFound
	}
	existing.ClientSlug = plan.ClientSlug
	existing.ClientName = plan.ClientName
	existing.CampaignName = plan.CampaignName
	s.plans[plan.MbaNumber] = existing
	return existing, nil
}

func (s *RepositoryStub) DeletePlan(ctx context.Context, mbaNumber string) (bool, error) {
	if _, ok := s.plans[mbaNumber]; ok {
		delete(s.plans, mbaNumber)
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) CreateVersion(ctx context.Context, version PlanVersion) (PlanVersion, error) {
	plan, ok := s.plans[version.MbaNumber]
	if !ok {
		return PlanVersion{}, ErrPlanNotFound
	}
	for i := range version.LineItems {
		version.LineItems[i].Id = s.nextItemId
		s.nextItemId++
	}
	plan.Versions = append(plan.Versions, version)
	s.plans[version.MbaNumber] = plan
	return version, nil
}

func (s *RepositoryStub) GetVersion(ctx context.Context, mbaNumber string, versionNumber int) (PlanVersion, error) {
	plan, ok := s.plans[mbaNumber]
	if !ok {
		return PlanVersion{}, ErrVersionNotFound
	}
	for _, version := range plan.Versions {
		if version.VersionNumber == versionNumber {
			return version, nil
		}
	}
	return PlanVersion{}, ErrVersionNotFound
}

func (s *RepositoryStub) UpdateVersionStatus(ctx context.Context, mbaNumber string, versionNumber int, status Status) (Status, error) {
	plan, ok := s.plans[mbaNumber]
	if !ok {
		return "", ErrVersionNotFound
	}
	for i := range plan.Versions {
		if plan.Versions[i].VersionNumber == versionNumber {
			oldStatus := plan.Versions[i].Status
			plan.Versions[i].Status = status
			s.plans[mbaNumber] = plan
			return oldStatus, nil
		}
	}
	return "", ErrVersionNotFound
}

func (s *RepositoryStub) UpdateLineItem(ctx context.Context, item LineItem) (LineItem, error) {
	plan, ok := s.plans[item.MbaNumber]
	if !ok {
		return LineItem{}, ErrLineItemNotFound
	}
	for i := range plan.Versions {
		if plan.Versions[i].VersionNumber != item.VersionNumber {
			continue
		}
		for j := range plan.Versions[i].LineItems {
			if plan.Versions[i].LineItems[j].Id == item.Id {
				plan.Versions[i].LineItems[j] = item
				s.plans[item.MbaNumber] = plan
				return item, nil
			}
		}
	}
	return LineItem{}, ErrLineItemNotFound
}

func (s *RepositoryStub) Cleanup() {
	s.plans = map[string]MediaPlan{}
	s.nextItemId = 1
}
