package burst

import (
	"time"

	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/money"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Date layouts accepted from stored burst records, most common first.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
}

// Normalize converts a stored burst record into a canonical Burst.
//
// Malformed fields degrade instead of failing: an unparseable date leaves the
// zero time (so the burst has no valid range and contributes nothing), an
// unparseable money value becomes zero, an unknown buy type falls back to
// fixed cost. One bad record must never abort a whole schedule computation.
func Normalize(mediaType mediaplan.MediaType, rec mediaplan.BurstRecord, defaultFeePct decimal.Decimal) Burst {
	b := Burst{
		MediaType:          mediaType,
		ClientPaysForMedia: rec.ClientPaysForMedia,
		BudgetIncludesFees: rec.BudgetIncludesFees,
		NoAdServing:        rec.NoAdServing,
		Deliverables:       decimal.NewFromFloat(rec.Deliverables),
	}

	b.StartDate = parseDate(rec.StartDate)
	b.EndDate = parseDate(rec.EndDate)
	if !b.HasValidRange() {
		log.Warnf("burst on %s has invalid date range (%q - %q), it will contribute zero", mediaType, rec.StartDate, rec.EndDate)
	}

	var err error
	if b.Budget, err = money.Parse(rec.Budget); err != nil {
		log.Warnf("burst on %s has invalid budget %q, using zero: %v", mediaType, rec.Budget, err)
		b.Budget = decimal.Zero
	}
	if b.BuyAmount, err = money.Parse(rec.BuyAmount); err != nil {
		log.Warnf("burst on %s has invalid buy amount %q, using zero: %v", mediaType, rec.BuyAmount, err)
		b.BuyAmount = decimal.Zero
	}

	switch BuyType(rec.BuyType) {
	case BuyTypeCPC, BuyTypeCPV, BuyTypeCPM, BuyTypeFixedCost:
		b.BuyType = BuyType(rec.BuyType)
	default:
		b.BuyType = BuyTypeFixedCost
	}

	if rec.FeePercentage > 0 {
		b.FeePercentage = decimal.NewFromFloat(rec.FeePercentage)
	} else {
		b.FeePercentage = defaultFeePct
	}

	return b
}

// NormalizeLineItem normalizes every burst of a line item.
func NormalizeLineItem(item mediaplan.LineItem, defaultFeePct decimal.Decimal) []Burst {
	bursts := make([]Burst, 0, len(item.Bursts))
	for _, rec := range item.Bursts {
		bursts = append(bursts, Normalize(item.MediaType, rec, defaultFeePct))
	}
	return bursts
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
