package dashboard

import (
	"testing"
	"time"

	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func version(number int, status mediaplan.Status) mediaplan.PlanVersion {
	return mediaplan.PlanVersion{MbaNumber: "MBA-1001", VersionNumber: number, Status: status}
}

func TestSelectVersion(t *testing.T) {
	t.Run("should prefer the highest booked, approved or completed version", func(t *testing.T) {
		versions := []mediaplan.PlanVersion{
			version(1, mediaplan.StatusDraft),
			version(2, mediaplan.StatusBooked),
			version(3, mediaplan.StatusDraft),
		}

		selected, ok := SelectVersion(versions)

		require.True(t, ok)
		assert.Equal(t, 2, selected.VersionNumber)
	})

	t.Run("should fall back to the highest non-cancelled version", func(t *testing.T) {
		versions := []mediaplan.PlanVersion{
			version(1, mediaplan.StatusDraft),
			version(2, mediaplan.StatusCancelled),
		}

		selected, ok := SelectVersion(versions)

		require.True(t, ok)
		assert.Equal(t, 1, selected.VersionNumber)
	})

	t.Run("should pick the highest version when everything is cancelled", func(t *testing.T) {
		versions := []mediaplan.PlanVersion{
			version(1, mediaplan.StatusCancelled),
			version(2, mediaplan.StatusCancelled),
		}

		selected, ok := SelectVersion(versions)

		require.True(t, ok)
		assert.Equal(t, 2, selected.VersionNumber)
	})

	t.Run("should report no selection for an empty slice", func(t *testing.T) {
		_, ok := SelectVersion(nil)

		assert.False(t, ok)
	})
}

func TestFYWindow(t *testing.T) {
	t.Run("should start July 1 of the same year from July onward", func(t *testing.T) {
		start, end := FYWindow(time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC))

		assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("should start July 1 of the prior year before July", func(t *testing.T) {
		start, end := FYWindow(time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC))

		assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC), end)
	})
}

func TestRollingWindow(t *testing.T) {
	// 30 calendar days ending on the reference day, inclusive
	start, end := RollingWindow(time.Date(2025, time.September, 15, 18, 30, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, time.August, 17, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC), end)
}

func TestAggregate(t *testing.T) {
	reference := time.Date(2025, time.September, 15, 12, 0, 0, 0, time.UTC)

	deliveredPlan := func(entries ...DeliveryEntry) SelectedPlan {
		return SelectedPlan{
			Plan: mediaplan.MediaPlan{
				MbaNumber:    "MBA-1001",
				ClientSlug:   "acme",
				CampaignName: "Summer Launch",
			},
			Version: mediaplan.PlanVersion{
				MbaNumber:     "MBA-1001",
				VersionNumber: 2,
				Status:        mediaplan.StatusBooked,
			},
			Entries: entries,
		}
	}

	t.Run("month entries inside the FY count in full", func(t *testing.T) {
		// given delivery of $3000 across September 2025
		plan := deliveredPlan(DeliveryEntry{
			MonthYear: "September 2025",
			MediaTypes: []DeliveryMediaType{
				{MediaType: "television", LineItems: []DeliveryLineItem{{Amount: 3000}}},
			},
		})

		// when
		metrics := Aggregate("acme", []SelectedPlan{plan}, reference)

		// then the FY takes all of it; the 30-day window takes Sep 1-15 of 30 days
		assert.InDelta(t, 3000, metrics.FYSpend.InexactFloat64(), 0.001)
		assert.InDelta(t, 1500, metrics.Last30DaysSpend.InexactFloat64(), 0.001)
		assert.Empty(t, metrics.EstimatedPlans)
	})

	t.Run("month entries from the prior FY contribute nothing", func(t *testing.T) {
		plan := deliveredPlan(DeliveryEntry{
			MonthYear: "June 2025",
			MediaTypes: []DeliveryMediaType{
				{MediaType: "television", LineItems: []DeliveryLineItem{{Amount: 900}}},
			},
		})

		metrics := Aggregate("acme", []SelectedPlan{plan}, reference)

		assert.True(t, metrics.FYSpend.IsZero())
		assert.Empty(t, metrics.MediaTypeBreakdown)
	})

	t.Run("daily entries count all-or-nothing per window", func(t *testing.T) {
		// given one day inside both windows and one only inside the FY
		plan := deliveredPlan(
			DeliveryEntry{
				MonthYear: "2025-09-10",
				MediaTypes: []DeliveryMediaType{
					{MediaType: "search", LineItems: []DeliveryLineItem{{Amount: 500}}},
				},
			},
			DeliveryEntry{
				MonthYear: "2025-08-10",
				MediaTypes: []DeliveryMediaType{
					{MediaType: "search", LineItems: []DeliveryLineItem{{Amount: 200}}},
				},
			},
		)

		// when
		metrics := Aggregate("acme", []SelectedPlan{plan}, reference)

		// then no partial-day proration happens
		assert.InDelta(t, 700, metrics.FYSpend.InexactFloat64(), 0.001)
		assert.InDelta(t, 500, metrics.Last30DaysSpend.InexactFloat64(), 0.001)
	})

	t.Run("unparseable entries contribute zero without failing the aggregate", func(t *testing.T) {
		plan := deliveredPlan(
			DeliveryEntry{MonthYear: "sometime soon", MediaTypes: []DeliveryMediaType{
				{MediaType: "radio", LineItems: []DeliveryLineItem{{Amount: 100}}},
			}},
			DeliveryEntry{MonthYear: "September 2025", MediaTypes: []DeliveryMediaType{
				{MediaType: "radio", LineItems: []DeliveryLineItem{{Amount: 300}}},
			}},
		)

		metrics := Aggregate("acme", []SelectedPlan{plan}, reference)

		assert.InDelta(t, 300, metrics.FYSpend.InexactFloat64(), 0.001)
	})

	t.Run("breakdowns cover the FY window only with normalized percentages", func(t *testing.T) {
		// given two media types delivering in September
		plan := deliveredPlan(DeliveryEntry{
			MonthYear: "September 2025",
			MediaTypes: []DeliveryMediaType{
				{MediaType: "television", LineItems: []DeliveryLineItem{{Amount: 750}}},
				{MediaType: "search", LineItems: []DeliveryLineItem{{Amount: 250}}},
				{MediaType: "radio", LineItems: []DeliveryLineItem{{Amount: 0}}},
			},
		})

		// when
		metrics := Aggregate("acme", []SelectedPlan{plan}, reference)

		// then zero groups are dropped and slices come largest first
		require.Len(t, metrics.MediaTypeBreakdown, 2)
		assert.Equal(t, "television", metrics.MediaTypeBreakdown[0].Label)
		assert.InDelta(t, 75, metrics.MediaTypeBreakdown[0].Percentage.InexactFloat64(), 0.001)
		assert.Equal(t, "search", metrics.MediaTypeBreakdown[1].Label)
		assert.InDelta(t, 25, metrics.MediaTypeBreakdown[1].Percentage.InexactFloat64(), 0.001)

		require.Len(t, metrics.CampaignBreakdown, 1)
		assert.Equal(t, "Summer Launch", metrics.CampaignBreakdown[0].Label)
	})

	t.Run("plans without delivery data fall back to a straight-line estimate", func(t *testing.T) {
		// given a July campaign with a $3000 budget and no delivery schedule
		plan := SelectedPlan{
			Plan: mediaplan.MediaPlan{
				MbaNumber:    "MBA-2002",
				ClientSlug:   "acme",
				CampaignName: "Winter Brand",
			},
			Version: mediaplan.PlanVersion{
				MbaNumber:     "MBA-2002",
				VersionNumber: 1,
				Status:        mediaplan.StatusBooked,
				CampaignStart: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
				CampaignEnd:   time.Date(2025, time.July, 30, 0, 0, 0, 0, time.UTC),
				Budget:        decimal.NewFromInt(3000),
				LineItems: []mediaplan.LineItem{
					{MediaType: mediaplan.MediaTypeTelevision},
					{MediaType: mediaplan.MediaTypeSearch},
				},
			},
		}

		// when
		metrics := Aggregate("acme", []SelectedPlan{plan}, reference)

		// then the full budget lands in the FY, split evenly across media types
		assert.InDelta(t, 3000, metrics.FYSpend.InexactFloat64(), 0.001)
		assert.True(t, metrics.Last30DaysSpend.IsZero())
		assert.Equal(t, []string{"MBA-2002"}, metrics.EstimatedPlans)
		require.Len(t, metrics.MediaTypeBreakdown, 2)
		assert.InDelta(t, 1500, metrics.MediaTypeBreakdown[0].Amount.InexactFloat64(), 0.001)
		assert.InDelta(t, 1500, metrics.MediaTypeBreakdown[1].Amount.InexactFloat64(), 0.001)
	})

	t.Run("a plan with real delivery data never mixes in the estimate", func(t *testing.T) {
		// given a campaign whose budget is much larger than delivered spend
		plan := deliveredPlan(DeliveryEntry{
			MonthYear: "September 2025",
			MediaTypes: []DeliveryMediaType{
				{MediaType: "television", LineItems: []DeliveryLineItem{{Amount: 100}}},
			},
		})
		plan.Version.CampaignStart = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
		plan.Version.CampaignEnd = time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
		plan.Version.Budget = decimal.NewFromInt(100000)

		// when
		metrics := Aggregate("acme", []SelectedPlan{plan}, reference)

		// then only the delivered figure is reported, sharp cutover
		assert.InDelta(t, 100, metrics.FYSpend.InexactFloat64(), 0.001)
		assert.Empty(t, metrics.EstimatedPlans)
	})
}
