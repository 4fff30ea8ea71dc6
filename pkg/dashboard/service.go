package dashboard

import (
	"context"

	"github.com/lukefitzpatrick-am/assembledview-sub002/internal/utils"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	log "github.com/sirupsen/logrus"
)

// PlanDirectory is the slice of the media plan service the dashboard depends
// on. An empty client slug lists every plan.
type PlanDirectory interface {
	ListPlansByClient(ctx context.Context, clientSlug string) ([]mediaplan.MediaPlan, error)
	GetVersion(ctx context.Context, mbaNumber string, versionNumber int) (mediaplan.PlanVersion, error)
}

type Service interface {
	// GetDashboard aggregates spend for one client, or for every client when
	// clientSlug is empty.
	GetDashboard(ctx context.Context, clientSlug string) (Metrics, error)
	SaveDeliverySchedule(ctx context.Context, mbaNumber string, versionNumber int, entries []DeliveryEntry) error
	GetDeliverySchedule(ctx context.Context, mbaNumber string, versionNumber int) ([]DeliveryEntry, error)
}

type ServiceImpl struct {
	plans PlanDirectory
	repo  Repository
	clock utils.Clock
}

func NewDashboardService(plans PlanDirectory, repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{plans: plans, repo: repo, clock: clock}
}

func (s *ServiceImpl) GetDashboard(ctx context.Context, clientSlug string) (Metrics, error) {
	plans, err := s.plans.ListPlansByClient(ctx, clientSlug)
	if err != nil {
		return Metrics{}, err
	}

	var selected []SelectedPlan
	for _, plan := range plans {
		version, ok := SelectVersion(plan.Versions)
		if !ok {
			log.Warnf("plan %s has no versions, skipping", plan.MbaNumber)
			continue
		}
		entries, err := s.repo.GetDeliverySchedule(ctx, plan.MbaNumber, version.VersionNumber)
		if err != nil {
			return Metrics{}, err
		}
		selected = append(selected, SelectedPlan{Plan: plan, Version: version, Entries: entries})
	}

	return Aggregate(clientSlug, selected, s.clock.Now()), nil
}

func (s *ServiceImpl) SaveDeliverySchedule(ctx context.Context, mbaNumber string, versionNumber int, entries []DeliveryEntry) error {
	if _, err := s.plans.GetVersion(ctx, mbaNumber, versionNumber); err != nil {
		return err
	}
	return s.repo.StoreDeliverySchedule(ctx, mbaNumber, versionNumber, entries)
}

func (s *ServiceImpl) GetDeliverySchedule(ctx context.Context, mbaNumber string, versionNumber int) ([]DeliveryEntry, error) {
	if _, err := s.plans.GetVersion(ctx, mbaNumber, versionNumber); err != nil {
		return nil, err
	}
	return s.repo.GetDeliverySchedule(ctx, mbaNumber, versionNumber)
}
