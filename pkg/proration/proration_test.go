package proration

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInclusive(t *testing.T) {
	assert.Equal(t, 1, DaysInclusive(date(2025, time.January, 15), date(2025, time.January, 15)))
	assert.Equal(t, 31, DaysInclusive(date(2025, time.January, 15), date(2025, time.February, 14)))
	assert.Equal(t, 365, DaysInclusive(date(2025, time.January, 1), date(2025, time.December, 31)))
	assert.Equal(t, 0, DaysInclusive(date(2025, time.March, 2), date(2025, time.March, 1)))
	assert.Equal(t, 0, DaysInclusive(time.Time{}, date(2025, time.March, 1)))
}

func TestDaysInclusive_AcrossDSTBoundary(t *testing.T) {
	// given a local timezone with a DST transition inside the range
	sydney, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)
	start := time.Date(2025, time.April, 1, 10, 0, 0, 0, sydney)
	end := time.Date(2025, time.April, 10, 23, 0, 0, 0, sydney)

	// then day counting stays calendar-based
	assert.Equal(t, 10, DaysInclusive(start, end))
}

func TestProrate(t *testing.T) {
	t.Run("should split across two months weighted by day overlap", func(t *testing.T) {
		// given a 31-day burst: 17 days in January, 14 in February
		start := date(2025, time.January, 15)
		end := date(2025, time.February, 14)
		amount := decimal.NewFromInt(3100)

		// when
		shares := Prorate(start, end, amount)

		// then
		require.Len(t, shares, 2)
		jan, _ := shares["January 2025"].Float64()
		feb, _ := shares["February 2025"].Float64()
		assert.InDelta(t, 3100.0*17/31, jan, 0.01)
		assert.InDelta(t, 3100.0*14/31, feb, 0.01)
	})

	t.Run("should return single full bucket for single-day burst", func(t *testing.T) {
		// given
		d := date(2025, time.March, 7)
		amount := decimal.NewFromFloat(512.75)

		// when
		shares := Prorate(d, d, amount)

		// then
		require.Len(t, shares, 1)
		assert.True(t, shares["March 2025"].Equal(amount))
	})

	t.Run("should return empty map when start is after end", func(t *testing.T) {
		shares := Prorate(date(2025, time.May, 10), date(2025, time.May, 1), decimal.NewFromInt(100))

		assert.Empty(t, shares)
	})

	t.Run("should return empty map for zero dates", func(t *testing.T) {
		shares := Prorate(time.Time{}, date(2025, time.May, 1), decimal.NewFromInt(100))

		assert.Empty(t, shares)
	})

	t.Run("shares should sum to the original amount", func(t *testing.T) {
		// given an awkward range spanning a leap February
		start := date(2024, time.January, 20)
		end := date(2024, time.April, 11)
		amount := decimal.NewFromFloat(9999.97)

		// when
		shares := Prorate(start, end, amount)

		// then
		sum := decimal.Zero
		for _, share := range shares {
			sum = sum.Add(share)
		}
		sumF, _ := sum.Float64()
		amountF, _ := amount.Float64()
		assert.InEpsilon(t, amountF, sumF, 1e-6)
	})

	t.Run("should create one bucket per month spanned", func(t *testing.T) {
		shares := Prorate(date(2025, time.January, 1), date(2025, time.March, 31), decimal.NewFromInt(300))

		require.Len(t, shares, 3)
		assert.Contains(t, shares, "January 2025")
		assert.Contains(t, shares, "February 2025")
		assert.Contains(t, shares, "March 2025")
	})
}

func TestOverlapShare(t *testing.T) {
	t.Run("should return full amount when range is inside window", func(t *testing.T) {
		share := OverlapShare(
			date(2025, time.August, 1), date(2025, time.August, 31), decimal.NewFromInt(310),
			date(2025, time.July, 1), date(2026, time.June, 30),
		)

		assert.True(t, share.Equal(decimal.NewFromInt(310)), "got %s", share)
	})

	t.Run("should prorate partial overlap by days", func(t *testing.T) {
		// given a 30-day June range with 10 days falling into a July-starting window
		share := OverlapShare(
			date(2025, time.June, 21), date(2025, time.July, 10), decimal.NewFromInt(200),
			date(2025, time.July, 1), date(2026, time.June, 30),
		)

		shareF, _ := share.Float64()
		assert.InDelta(t, 200.0*10/20, shareF, 0.01)
	})

	t.Run("should return zero for disjoint ranges", func(t *testing.T) {
		share := OverlapShare(
			date(2024, time.January, 1), date(2024, time.February, 1), decimal.NewFromInt(100),
			date(2025, time.July, 1), date(2026, time.June, 30),
		)

		assert.True(t, share.IsZero())
	})

	t.Run("should return zero for invalid source range", func(t *testing.T) {
		share := OverlapShare(
			date(2025, time.May, 10), date(2025, time.May, 1), decimal.NewFromInt(100),
			date(2025, time.January, 1), date(2025, time.December, 31),
		)

		assert.True(t, share.IsZero())
	})
}

func TestMonthStarts(t *testing.T) {
	months := MonthStarts(date(2025, time.November, 12), date(2026, time.February, 3))

	require.Len(t, months, 4)
	assert.Equal(t, "November 2025", MonthLabel(months[0]))
	assert.Equal(t, "February 2026", MonthLabel(months[3]))
}

func TestParseMonthLabel(t *testing.T) {
	parsed, err := ParseMonthLabel("March 2025")

	require.NoError(t, err)
	assert.Equal(t, date(2025, time.March, 1), parsed)
}
