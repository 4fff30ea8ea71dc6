package burst

import (
	"testing"
	"time"

	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultFeePct = decimal.NewFromInt(10)

func TestNormalize(t *testing.T) {
	t.Run("should normalize a well-formed record", func(t *testing.T) {
		// given
		rec := mediaplan.BurstRecord{
			StartDate:          "2025-01-15",
			EndDate:            "2025-02-14",
			Budget:             "$3,100.00",
			BuyAmount:          "$2,790.00",
			Deliverables:       150000,
			BuyType:            "cpm",
			BudgetIncludesFees: true,
			FeePercentage:      12.5,
		}

		// when
		b := Normalize(mediaplan.MediaTypeProgVideo, rec, defaultFeePct)

		// then
		assert.True(t, b.HasValidRange())
		assert.Equal(t, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), b.StartDate)
		assert.True(t, b.Budget.Equal(decimal.NewFromInt(3100)))
		assert.True(t, b.BuyAmount.Equal(decimal.NewFromInt(2790)))
		assert.Equal(t, BuyTypeCPM, b.BuyType)
		assert.True(t, b.FeePercentage.Equal(decimal.NewFromFloat(12.5)))
		assert.True(t, b.BudgetIncludesFees)
	})

	t.Run("should fall back to default fee percentage", func(t *testing.T) {
		rec := mediaplan.BurstRecord{StartDate: "2025-01-01", EndDate: "2025-01-31", Budget: "100"}

		b := Normalize(mediaplan.MediaTypeRadio, rec, defaultFeePct)

		assert.True(t, b.FeePercentage.Equal(defaultFeePct))
	})

	t.Run("should degrade invalid dates to a zero-contribution range", func(t *testing.T) {
		rec := mediaplan.BurstRecord{StartDate: "not-a-date", EndDate: "2025-01-31", Budget: "100"}

		b := Normalize(mediaplan.MediaTypeRadio, rec, defaultFeePct)

		assert.False(t, b.HasValidRange())
	})

	t.Run("should treat start after end as invalid, not fatal", func(t *testing.T) {
		rec := mediaplan.BurstRecord{StartDate: "2025-03-10", EndDate: "2025-03-01", Budget: "100"}

		b := Normalize(mediaplan.MediaTypeRadio, rec, defaultFeePct)

		assert.False(t, b.HasValidRange())
	})

	t.Run("should degrade invalid money to zero", func(t *testing.T) {
		rec := mediaplan.BurstRecord{StartDate: "2025-01-01", EndDate: "2025-01-31", Budget: "$oops"}

		b := Normalize(mediaplan.MediaTypeRadio, rec, defaultFeePct)

		assert.True(t, b.Budget.IsZero())
	})

	t.Run("should default unknown buy type to fixed cost", func(t *testing.T) {
		rec := mediaplan.BurstRecord{StartDate: "2025-01-01", EndDate: "2025-01-31", BuyType: "bogus"}

		b := Normalize(mediaplan.MediaTypeRadio, rec, defaultFeePct)

		assert.Equal(t, BuyTypeFixedCost, b.BuyType)
	})

	t.Run("should accept slash-formatted dates", func(t *testing.T) {
		rec := mediaplan.BurstRecord{StartDate: "15/01/2025", EndDate: "14/02/2025"}

		b := Normalize(mediaplan.MediaTypeRadio, rec, defaultFeePct)

		assert.True(t, b.HasValidRange())
		assert.Equal(t, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), b.StartDate)
	})
}

func TestNormalizeLineItem(t *testing.T) {
	// given
	item := mediaplan.LineItem{
		MediaType: mediaplan.MediaTypeBVOD,
		Bursts: []mediaplan.BurstRecord{
			{StartDate: "2025-01-01", EndDate: "2025-01-31", Budget: "1000"},
			{StartDate: "2025-02-01", EndDate: "2025-02-28", Budget: "2000"},
		},
	}

	// when
	bursts := NormalizeLineItem(item, defaultFeePct)

	// then
	require.Len(t, bursts, 2)
	assert.Equal(t, mediaplan.MediaTypeBVOD, bursts[0].MediaType)
	assert.True(t, bursts[1].Budget.Equal(decimal.NewFromInt(2000)))
}
