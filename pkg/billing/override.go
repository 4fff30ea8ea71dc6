package billing

import (
	"errors"
	"fmt"

	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
)

// BudgetTolerance is the maximum absolute divergence allowed between a manual
// schedule's grand total and the plan budget. A flat $2.00 regardless of plan
// size, per the agency's billing rules.
var BudgetTolerance = decimal.NewFromInt(2)

var ErrBudgetMismatch = errors.New("manual schedule total does not match plan budget")
var ErrUnknownMonth = errors.New("edit references a month outside the schedule")

// EditField selects which leaf value of a month an edit replaces.
type EditField string

const (
	// EditFieldMedia replaces one media type's cost for the month.
	EditFieldMedia EditField = "media"
	// EditFieldFee replaces the month's fee total.
	EditFieldFee EditField = "fee"
)

// Edit replaces a single leaf value of one month bucket.
type Edit struct {
	Month     string
	Field     EditField
	MediaType mediaplan.MediaType
	Amount    decimal.Decimal
}

// ApplyOverride returns a copy of the schedule with the edits applied. After
// each month's leaves are replaced, its media total is recomputed from the
// media cost map and its total becomes media + fee; the ad-serving figure is
// carried over unchanged from the last computed schedule but is not part of a
// manual total. The input schedule is not mutated, so the caller's snapshot
// of the computed schedule survives for reset.
func ApplyOverride(s Schedule, edits []Edit) (Schedule, error) {
	out := cloneSchedule(s)
	out.Manual = true

	byLabel := make(map[string]*MonthBucket, len(out.Months))
	for i := range out.Months {
		byLabel[out.Months[i].Label] = &out.Months[i]
	}

	for _, edit := range edits {
		bucket, ok := byLabel[edit.Month]
		if !ok {
			return Schedule{}, fmt.Errorf("%w: %q", ErrUnknownMonth, edit.Month)
		}
		switch edit.Field {
		case EditFieldFee:
			bucket.TotalFee = edit.Amount
		case EditFieldMedia:
			bucket.MediaCosts[edit.MediaType] = edit.Amount
		default:
			return Schedule{}, fmt.Errorf("unknown edit field %q", edit.Field)
		}
	}

	grandTotal := decimal.Zero
	for i := range out.Months {
		bucket := &out.Months[i]
		totalMedia := decimal.Zero
		for _, mt := range mediaplan.AllMediaTypes {
			if cost, ok := bucket.MediaCosts[mt]; ok {
				totalMedia = totalMedia.Add(cost)
			}
		}
		bucket.TotalMedia = totalMedia
		bucket.TotalAmount = totalMedia.Add(bucket.TotalFee)
		grandTotal = grandTotal.Add(bucket.TotalAmount)
	}
	out.GrandTotal = grandTotal

	return out, nil
}

// ValidateAgainstBudget rejects a manual schedule whose grand total diverges
// from the plan budget by more than the flat tolerance.
func (s Schedule) ValidateAgainstBudget(budget decimal.Decimal) error {
	diff := s.GrandTotal.Sub(budget).Abs()
	if diff.GreaterThan(BudgetTolerance) {
		return fmt.Errorf("%w: schedule totals %s against a budget of %s",
			ErrBudgetMismatch, s.GrandTotal.StringFixed(2), budget.StringFixed(2))
	}
	return nil
}

func cloneSchedule(s Schedule) Schedule {
	out := s
	out.Months = make([]MonthBucket, len(s.Months))
	for i, bucket := range s.Months {
		copied := bucket
		copied.MediaCosts = make(map[mediaplan.MediaType]decimal.Decimal, len(bucket.MediaCosts))
		for mt, cost := range bucket.MediaCosts {
			copied.MediaCosts[mt] = cost
		}
		out.Months[i] = copied
	}
	return out
}
