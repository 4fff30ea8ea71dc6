package mediaplan

import (
	"context"
	"testing"
	"time"

	"github.com/lukefitzpatrick-am/assembledview-sub002/internal/event_bus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceWithStub() (Service, *RepositoryStub, *event_bus.EventBus) {
	repo := NewStubMediaPlanRepo()
	bus := event_bus.NewEventBus()
	return NewMediaPlanService(repo, bus), repo, bus
}

func stubPlan() MediaPlan {
	return MediaPlan{
		MbaNumber:    "MBA-3003",
		ClientSlug:   "acme",
		ClientName:   "Acme Pty Ltd",
		CampaignName: "Winter Brand",
		Versions: []PlanVersion{
			{
				VersionNumber: 1,
				CampaignStart: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
				CampaignEnd:   time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC),
				Budget:        decimal.NewFromInt(20000),
				LineItems: []LineItem{
					{
						MediaType: MediaTypeSearch,
						Bursts: []BurstRecord{
							{StartDate: "2025-03-01", EndDate: "2025-04-30", Budget: "20000", BudgetIncludesFees: true},
						},
					},
				},
			},
		},
	}
}

func TestMediaPlanService(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatePlan should assign a uid and default the version status", func(t *testing.T) {
		// given
		service, _, _ := serviceWithStub()

		// when
		created, err := service.CreatePlan(ctx, stubPlan())

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, created.Uid)
		assert.Equal(t, StatusDraft, created.Versions[0].Status)
	})

	t.Run("CreatePlan should reject a plan without versions", func(t *testing.T) {
		service, _, _ := serviceWithStub()
		plan := stubPlan()
		plan.Versions = nil

		_, err := service.CreatePlan(ctx, plan)

		assert.Error(t, err)
	})

	t.Run("CreatePlan should reject a plan without an MBA number", func(t *testing.T) {
		service, _, _ := serviceWithStub()
		plan := stubPlan()
		plan.MbaNumber = ""

		_, err := service.CreatePlan(ctx, plan)

		assert.Error(t, err)
	})

	t.Run("CreateVersion should require an existing plan", func(t *testing.T) {
		service, _, _ := serviceWithStub()

		_, err := service.CreateVersion(ctx, PlanVersion{MbaNumber: "MBA-9999", VersionNumber: 1})

		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("UpdateLineItem should publish an update event", func(t *testing.T) {
		// given a created plan and a subscriber on line item updates
		service, _, bus := serviceWithStub()
		created, err := service.CreatePlan(ctx, stubPlan())
		require.NoError(t, err)
		item := created.Versions[0].LineItems[0]

		var received []event_bus.LineItemUpdated
		event_bus.SubscribeTyped[event_bus.LineItemUpdated](bus, "mediaplan.lineitem.updated",
			func(e event_bus.EventT[event_bus.LineItemUpdated]) error {
				received = append(received, e.Data)
				return nil
			})

		// when
		item.Bursts = []BurstRecord{
			{StartDate: "2025-03-01", EndDate: "2025-03-31", Budget: "12000", BudgetIncludesFees: true},
		}
		_, err = service.UpdateLineItem(ctx, item)

		// then
		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, "MBA-3003", received[0].MbaNumber)
		assert.Equal(t, 1, received[0].VersionNumber)
		assert.Equal(t, string(MediaTypeSearch), received[0].MediaType)
	})

	t.Run("UpdateVersionStatus should publish a status change event", func(t *testing.T) {
		// given
		service, _, bus := serviceWithStub()
		_, err := service.CreatePlan(ctx, stubPlan())
		require.NoError(t, err)

		var received []event_bus.PlanVersionStatusChanged
		event_bus.SubscribeTyped[event_bus.PlanVersionStatusChanged](bus, "mediaplan.version.status_changed",
			func(e event_bus.EventT[event_bus.PlanVersionStatusChanged]) error {
				received = append(received, e.Data)
				return nil
			})

		// when
		err = service.UpdateVersionStatus(ctx, "MBA-3003", 1, StatusBooked)

		// then
		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, string(StatusDraft), received[0].OldStatus)
		assert.Equal(t, string(StatusBooked), received[0].NewStatus)
	})

	t.Run("UpdateVersionStatus should not publish when the status is unchanged", func(t *testing.T) {
		// given
		service, _, bus := serviceWithStub()
		_, err := service.CreatePlan(ctx, stubPlan())
		require.NoError(t, err)

		published := 0
		event_bus.SubscribeTyped[event_bus.PlanVersionStatusChanged](bus, "mediaplan.version.status_changed",
			func(e event_bus.EventT[event_bus.PlanVersionStatusChanged]) error {
				published++
				return nil
			})

		// when
		err = service.UpdateVersionStatus(ctx, "MBA-3003", 1, StatusDraft)

		// then
		require.NoError(t, err)
		assert.Zero(t, published)
	})
}
