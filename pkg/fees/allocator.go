package fees

import (
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/burst"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var hundred = decimal.NewFromInt(100)

// ModelParameters carries contractual fee percentages. It is always passed
// explicitly into calculations; fee rules are never read from ambient state.
type ModelParameters struct {
	DefaultPercentage decimal.Decimal
	ByMediaType       map[mediaplan.MediaType]decimal.Decimal
}

// PercentageFor returns the contracted fee percentage for a media type,
// falling back to the default.
func (p ModelParameters) PercentageFor(mt mediaplan.MediaType) decimal.Decimal {
	if pct, ok := p.ByMediaType[mt]; ok {
		return pct
	}
	return p.DefaultPercentage
}

// Split is the result of dividing a burst's stated budget into agency fee and
// media cost. MediaAmount + FeeAmount always equals TotalAmount.
type Split struct {
	MediaAmount decimal.Decimal
	FeeAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// Allocate splits a burst's budget under one of three mutually exclusive
// contractual models:
//
//  1. Gross budget includes fee (BudgetIncludesFees): the fee is carved out
//     of the stated budget.
//  2. Net media, fee on top (neither flag): the stated budget is pure media
//     cost and the fee is grossed up on top of it.
//  3. Client pays media directly (ClientPaysForMedia): the agency bills only
//     the grossed-up fee; media cost is excluded from agency totals.
//
// The burst's own fee percentage wins when set; otherwise the contracted
// percentage for its media type applies. A percentage at or above 100 would
// divide by zero in models 2 and 3, so it is defined as the fee consuming the
// whole budget.
func Allocate(b burst.Burst, params ModelParameters) Split {
	pct := b.FeePercentage
	if pct.IsZero() {
		pct = params.PercentageFor(b.MediaType)
	}

	if pct.GreaterThanOrEqual(hundred) {
		log.Warnf("fee percentage %s on %s is >= 100, fee consumes the entire budget", pct, b.MediaType)
		return Split{
			MediaAmount: decimal.Zero,
			FeeAmount:   b.Budget,
			TotalAmount: b.Budget,
		}
	}

	var media, fee decimal.Decimal
	switch {
	case b.BudgetIncludesFees:
		fee = b.Budget.Mul(pct).Div(hundred)
		media = b.Budget.Mul(hundred.Sub(pct)).Div(hundred)
	case b.ClientPaysForMedia:
		media = decimal.Zero
		fee = b.Budget.Div(hundred.Sub(pct)).Mul(pct)
	default:
		media = b.Budget
		fee = b.Budget.Div(hundred.Sub(pct)).Mul(pct)
	}

	return Split{
		MediaAmount: media,
		FeeAmount:   fee,
		TotalAmount: media.Add(fee),
	}
}
