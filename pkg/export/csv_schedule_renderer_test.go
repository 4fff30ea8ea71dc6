package export

import (
	"strings"
	"testing"

	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/billing"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchedule() billing.Schedule {
	return billing.Schedule{
		MbaNumber:     "MBA-1001",
		VersionNumber: 2,
		Months: []billing.MonthBucket{
			{
				Label: "January 2025",
				MediaCosts: map[mediaplan.MediaType]decimal.Decimal{
					mediaplan.MediaTypeTelevision: decimal.RequireFromString("1700.65"),
					mediaplan.MediaTypeSearch:     decimal.NewFromInt(500),
				},
				TotalMedia:   decimal.RequireFromString("2200.65"),
				TotalFee:     decimal.RequireFromString("188.87"),
				AdServingFee: decimal.Zero,
				Production:   decimal.Zero,
				TotalAmount:  decimal.RequireFromString("2389.52"),
			},
			{
				Label: "February 2025",
				MediaCosts: map[mediaplan.MediaType]decimal.Decimal{
					mediaplan.MediaTypeTelevision: decimal.RequireFromString("1399.35"),
				},
				TotalMedia:   decimal.RequireFromString("1399.35"),
				TotalFee:     decimal.RequireFromString("155.57"),
				AdServingFee: decimal.NewFromInt(120),
				Production:   decimal.Zero,
				TotalAmount:  decimal.RequireFromString("1674.92"),
			},
		},
		GrandTotal: decimal.RequireFromString("4064.44"),
	}
}

func TestCsvScheduleRendererImpl_RenderSchedule(t *testing.T) {
	// given
	renderer := NewCsvScheduleRenderer()

	// when
	csv, err := renderer.RenderSchedule(sampleSchedule())

	// then
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Month,television,search,Fee,Ad Serving,Production,Total", lines[0])
	assert.Equal(t, `January 2025,"$1,700.65",$500.00,$188.87,$0.00,$0.00,"$2,389.52"`, lines[1])
	assert.Equal(t, `February 2025,"$1,399.35",$0.00,$155.57,$120.00,$0.00,"$1,674.92"`, lines[2])
	assert.Equal(t, `TOTAL,"$3,100.00",$500.00,$344.44,$120.00,$0.00,"$4,064.44"`, lines[3])
}

func TestCsvScheduleRendererImpl_RenderSchedule_Empty(t *testing.T) {
	renderer := NewCsvScheduleRenderer()

	csv, err := renderer.RenderSchedule(billing.Schedule{GrandTotal: decimal.Zero})

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Month,Fee,Ad Serving,Production,Total", lines[0])
	assert.Equal(t, "TOTAL,$0.00,$0.00,$0.00,$0.00", lines[1])
}
