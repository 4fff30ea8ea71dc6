package mediaplan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lukefitzpatrick-am/assembledview-sub002/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	CreatePlan(ctx context.Context, plan MediaPlan) (MediaPlan, error)
	GetPlan(ctx context.Context, mbaNumber string) (MediaPlan, error)
	ListPlans(ctx context.Context) ([]MediaPlan, error)
	ListPlansByClient(ctx context.Context, clientSlug string) ([]MediaPlan, error)
	UpdatePlan(ctx context.Context, plan MediaPlan) (MediaPlan, error)
	DeletePlan(ctx context.Context, mbaNumber string) (bool, error)
	CreateVersion(ctx context.Context, version PlanVersion) (PlanVersion, error)
	GetVersion(ctx context.Context, mbaNumber string, versionNumber int) (PlanVersion, error)
	UpdateVersionStatus(ctx context.Context, mbaNumber string, versionNumber int, status Status) error
	UpdateLineItem(ctx context.Context, item LineItem) (LineItem, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewMediaPlanService(repo Repository, eventBus *event_bus.EventBus) Service {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) CreatePlan(ctx context.Context, plan MediaPlan) (MediaPlan, error) {
	if plan.MbaNumber == "" {
		return MediaPlan{}, fmt.Errorf("MBA number is required")
	}
	plan.Uid = uuid.New().String()
	if len(plan.Versions) == 0 {
		return MediaPlan{}, fmt.Errorf("a plan needs at least one version")
	}
	for i := range plan.Versions {
		plan.Versions[i].MbaNumber = plan.MbaNumber
		if plan.Versions[i].Status == "" {
			plan.Versions[i].Status = StatusDraft
		}
	}
	return s.repo.CreatePlan(ctx, plan)
}

func (s *ServiceImpl) GetPlan(ctx context.Context, mbaNumber string) (MediaPlan, error) {
	return s.repo.GetPlan(ctx, mbaNumber)
}

func (s *ServiceImpl) ListPlans(ctx context.Context) ([]MediaPlan, error) {
	return s.repo.ListPlans(ctx)
}

func (s *ServiceImpl) ListPlansByClient(ctx context.Context, clientSlug string) ([]MediaPlan, error) {
	return s.repo.ListPlansByClient(ctx, clientSlug)
}

func (s *ServiceImpl) UpdatePlan(ctx context.Context, plan MediaPlan) (MediaPlan, error) {
	return s.repo.UpdatePlan(ctx, plan)
}

func (s *ServiceImpl) DeletePlan(ctx context.Context, mbaNumber string) (bool, error) {
	deleted, err := s.repo.DeletePlan(ctx, mbaNumber)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("plan %s not deleted, probably because it does not exist", mbaNumber)
	}
	return deleted, nil
}

// CreateVersion cuts a new revision of an existing plan. The version number
// must be the next free one; duplicates are rejected by the unique constraint.
func (s *ServiceImpl) CreateVersion(ctx context.Context, version PlanVersion) (PlanVersion, error) {
	if _, err := s.repo.GetPlan(ctx, version.MbaNumber); err != nil {
		return PlanVersion{}, err
	}
	if version.Status == "" {
		version.Status = StatusDraft
	}
	return s.repo.CreateVersion(ctx, version)
}

func (s *ServiceImpl) GetVersion(ctx context.Context, mbaNumber string, versionNumber int) (PlanVersion, error) {
	return s.repo.GetVersion(ctx, mbaNumber, versionNumber)
}

func (s *ServiceImpl) UpdateVersionStatus(ctx context.Context, mbaNumber string, versionNumber int, status Status) error {
	oldStatus, err := s.repo.UpdateVersionStatus(ctx, mbaNumber, versionNumber, status)
	if err != nil {
		return err
	}
	if oldStatus == status {
		return nil
	}

	// The transaction is already closed, so a failed publish leaves subscribers
	// one event behind. The application runs as a single process against a
	// single database and every subscriber recomputes from stored state on the
	// next read, so the stale window is acceptable.
	err = s.eventBus.Publish(event_bus.NewEvent(
		ctx,
		"mediaplan.version.status_changed",
		event_bus.PlanVersionStatusChanged{
			MbaNumber:     mbaNumber,
			VersionNumber: versionNumber,
			OldStatus:     string(oldStatus),
			NewStatus:     string(status),
			ChangedAt:     time.Now(),
		},
	))
	if err != nil {
		log.Errorf("failed to publish version status change event: %v", err)
		return err
	}
	return nil
}

func (s *ServiceImpl) UpdateLineItem(ctx context.Context, item LineItem) (LineItem, error) {
	updated, err := s.repo.UpdateLineItem(ctx, item)
	if err != nil {
		return LineItem{}, err
	}

	err = s.eventBus.Publish(event_bus.NewEvent(
		ctx,
		"mediaplan.lineitem.updated",
		event_bus.LineItemUpdated{
			MbaNumber:     updated.MbaNumber,
			VersionNumber: updated.VersionNumber,
			MediaType:     string(updated.MediaType),
		},
	))
	if err != nil {
		log.Errorf("failed to publish line item update event: %v", err)
		return LineItem{}, err
	}
	return updated, nil
}
