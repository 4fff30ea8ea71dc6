package billing

import (
	"context"
	"fmt"

	"github.com/lukefitzpatrick-am/assembledview-sub002/internal/event_bus"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/fees"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	log "github.com/sirupsen/logrus"
)

// PlanReader is the slice of the media plan service the schedule service
// depends on.
type PlanReader interface {
	GetVersion(ctx context.Context, mbaNumber string, versionNumber int) (mediaplan.PlanVersion, error)
}

type Service interface {
	// GetSchedule returns the effective schedule: the persisted manual one if
	// present, otherwise a freshly computed one.
	GetSchedule(ctx context.Context, mbaNumber string, versionNumber int) (Schedule, error)
	// ComputeSchedule always returns the machine-computed schedule, ignoring
	// any manual override. It doubles as the pre-edit snapshot for reset.
	ComputeSchedule(ctx context.Context, mbaNumber string, versionNumber int) (Schedule, error)
	// SaveManualSchedule applies edits on top of the effective schedule,
	// validates the result against the plan budget, and persists it.
	SaveManualSchedule(ctx context.Context, mbaNumber string, versionNumber int, edits []Edit) (Schedule, error)
	// ResetManualSchedule discards the manual schedule and returns the
	// machine-computed one.
	ResetManualSchedule(ctx context.Context, mbaNumber string, versionNumber int) (Schedule, error)
}

type ServiceImpl struct {
	plans  PlanReader
	repo   Repository
	params fees.ModelParameters
	card   fees.AdServingRateCard
}

// NewScheduleService wires the schedule service and subscribes it to line
// item updates: a persisted manual schedule is stale the moment the plan's
// inputs change, so it is dropped.
func NewScheduleService(
	plans PlanReader,
	repo Repository,
	params fees.ModelParameters,
	card fees.AdServingRateCard,
	bus *event_bus.EventBus,
) *ServiceImpl {
	s := &ServiceImpl{plans: plans, repo: repo, params: params, card: card}
	if bus != nil {
		event_bus.SubscribeTyped[event_bus.LineItemUpdated](bus, "mediaplan.lineitem.updated",
			func(e event_bus.EventT[event_bus.LineItemUpdated]) error {
				deleted, err := s.repo.DeleteManualSchedule(e.Context(), e.Data.MbaNumber, e.Data.VersionNumber)
				if err != nil {
					return err
				}
				if deleted {
					log.Infof("dropped stale manual schedule for plan %s v%d after line item update",
						e.Data.MbaNumber, e.Data.VersionNumber)
				}
				return nil
			})
	}
	return s
}

func (s *ServiceImpl) GetSchedule(ctx context.Context, mbaNumber string, versionNumber int) (Schedule, error) {
	manual, err := s.repo.GetManualSchedule(ctx, mbaNumber, versionNumber)
	if err != nil {
		return Schedule{}, err
	}
	if manual != nil {
		return *manual, nil
	}
	return s.ComputeSchedule(ctx, mbaNumber, versionNumber)
}

func (s *ServiceImpl) ComputeSchedule(ctx context.Context, mbaNumber string, versionNumber int) (Schedule, error) {
	version, err := s.plans.GetVersion(ctx, mbaNumber, versionNumber)
	if err != nil {
		return Schedule{}, fmt.Errorf("failed to load plan version: %w", err)
	}
	return BuildSchedule(version, s.params, s.card), nil
}

func (s *ServiceImpl) SaveManualSchedule(ctx context.Context, mbaNumber string, versionNumber int, edits []Edit) (Schedule, error) {
	version, err := s.plans.GetVersion(ctx, mbaNumber, versionNumber)
	if err != nil {
		return Schedule{}, fmt.Errorf("failed to load plan version: %w", err)
	}

	base, err := s.GetSchedule(ctx, mbaNumber, versionNumber)
	if err != nil {
		return Schedule{}, err
	}

	edited, err := ApplyOverride(base, edits)
	if err != nil {
		return Schedule{}, err
	}
	if err := edited.ValidateAgainstBudget(version.Budget); err != nil {
		return Schedule{}, err
	}

	if err := s.repo.StoreManualSchedule(ctx, edited); err != nil {
		return Schedule{}, err
	}
	return edited, nil
}

func (s *ServiceImpl) ResetManualSchedule(ctx context.Context, mbaNumber string, versionNumber int) (Schedule, error) {
	deleted, err := s.repo.DeleteManualSchedule(ctx, mbaNumber, versionNumber)
	if err != nil {
		return Schedule{}, err
	}
	if !deleted {
		log.Debugf("no manual schedule to reset for plan %s v%d", mbaNumber, versionNumber)
	}
	return s.ComputeSchedule(ctx, mbaNumber, versionNumber)
}
