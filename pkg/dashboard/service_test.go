package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/lukefitzpatrick-am/assembledview-sub002/internal/utils"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardFixture(t *testing.T) (Service, *RepositoryStub, *utils.MockClock) {
	t.Helper()
	planRepo := mediaplan.NewStubMediaPlanRepo()
	_, err := planRepo.CreatePlan(context.Background(), mediaplan.MediaPlan{
		MbaNumber:    "MBA-1001",
		Uid:          "uid-1",
		ClientSlug:   "acme",
		ClientName:   "Acme Pty Ltd",
		CampaignName: "Summer Launch",
		Versions: []mediaplan.PlanVersion{
			{
				MbaNumber:     "MBA-1001",
				VersionNumber: 1,
				Status:        mediaplan.StatusDraft,
				CampaignStart: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
				CampaignEnd:   time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC),
				Budget:        decimal.NewFromInt(9000),
			},
			{
				MbaNumber:     "MBA-1001",
				VersionNumber: 2,
				Status:        mediaplan.StatusBooked,
				CampaignStart: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
				CampaignEnd:   time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC),
				Budget:        decimal.NewFromInt(9200),
				LineItems: []mediaplan.LineItem{
					{MediaType: mediaplan.MediaTypeTelevision},
				},
			},
		},
	})
	require.NoError(t, err)

	repo := NewStubDeliveryScheduleRepo()
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.September, 15, 12, 0, 0, 0, time.UTC)}
	return NewDashboardService(planRepo, repo, clock), repo, clock
}

func TestDashboardService(t *testing.T) {
	ctx := context.Background()

	t.Run("GetDashboard should aggregate the selected version's delivery schedule", func(t *testing.T) {
		// given a delivery schedule stored against the booked version
		service, repo, _ := dashboardFixture(t)
		err := repo.StoreDeliverySchedule(ctx, "MBA-1001", 2, []DeliveryEntry{
			{MonthYear: "September 2025", MediaTypes: []DeliveryMediaType{
				{MediaType: "television", LineItems: []DeliveryLineItem{{Amount: 3000}}},
			}},
		})
		require.NoError(t, err)

		// when
		metrics, err := service.GetDashboard(ctx, "acme")

		// then the booked v2 is reported, not the draft v1
		require.NoError(t, err)
		assert.InDelta(t, 3000, metrics.FYSpend.InexactFloat64(), 0.001)
		assert.Empty(t, metrics.EstimatedPlans)
	})

	t.Run("GetDashboard should estimate plans without delivery data", func(t *testing.T) {
		// given no stored delivery schedule
		service, _, _ := dashboardFixture(t)

		// when
		metrics, err := service.GetDashboard(ctx, "acme")

		// then the campaign budget is straight-lined into the windows
		require.NoError(t, err)
		assert.Equal(t, []string{"MBA-1001"}, metrics.EstimatedPlans)
		assert.InDelta(t, 9200, metrics.FYSpend.InexactFloat64(), 0.001)
		assert.True(t, metrics.Last30DaysSpend.GreaterThan(decimal.Zero))
	})

	t.Run("GetDashboard should return empty metrics for an unknown client", func(t *testing.T) {
		service, _, _ := dashboardFixture(t)

		metrics, err := service.GetDashboard(ctx, "nonexistent")

		require.NoError(t, err)
		assert.True(t, metrics.FYSpend.IsZero())
		assert.Empty(t, metrics.MediaTypeBreakdown)
	})

	t.Run("SaveDeliverySchedule should reject an unknown plan version", func(t *testing.T) {
		service, _, _ := dashboardFixture(t)

		err := service.SaveDeliverySchedule(ctx, "MBA-1001", 99, []DeliveryEntry{})

		assert.ErrorIs(t, err, mediaplan.ErrVersionNotFound)
	})

	t.Run("SaveDeliverySchedule should store entries readable via GetDeliverySchedule", func(t *testing.T) {
		// given
		service, _, _ := dashboardFixture(t)
		entries := []DeliveryEntry{
			{MonthYear: "August 2025", MediaTypes: []DeliveryMediaType{
				{MediaType: "television", LineItems: []DeliveryLineItem{{Amount: 1200}}},
			}},
		}

		// when
		err := service.SaveDeliverySchedule(ctx, "MBA-1001", 2, entries)

		// then
		require.NoError(t, err)
		stored, err := service.GetDeliverySchedule(ctx, "MBA-1001", 2)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "August 2025", stored[0].MonthYear)
	})
}
