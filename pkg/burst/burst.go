package burst

import (
	"time"

	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
)

// BuyType is the pricing model of a burst's media buy.
type BuyType string

const (
	BuyTypeCPC       BuyType = "cpc"
	BuyTypeCPV       BuyType = "cpv"
	BuyTypeCPM       BuyType = "cpm"
	BuyTypeFixedCost BuyType = "fixed_cost"
)

// Burst is the canonical, fully typed form of one delivery burst. All
// schedule computation consumes Bursts, never raw stored records.
type Burst struct {
	StartDate          time.Time
	EndDate            time.Time
	Budget             decimal.Decimal
	BuyAmount          decimal.Decimal
	Deliverables       decimal.Decimal
	ClientPaysForMedia bool
	BudgetIncludesFees bool
	FeePercentage      decimal.Decimal
	MediaType          mediaplan.MediaType
	BuyType            BuyType
	NoAdServing        bool
}

// HasValidRange reports whether the burst's date range can contribute to a
// proration. An invalid range is never an error: the burst simply contributes
// zero everywhere.
func (b Burst) HasValidRange() bool {
	return !b.StartDate.IsZero() && !b.EndDate.IsZero() && !b.StartDate.After(b.EndDate)
}
