package proration

import (
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// MonthLabelFormat is the canonical bucket key format, e.g. "March 2025".
const MonthLabelFormat = "January 2006"

// MonthLabel returns the canonical month bucket key for a date.
func MonthLabel(t time.Time) string {
	return t.Format(MonthLabelFormat)
}

// ParseMonthLabel parses a canonical month bucket key back into the first day
// of that month (UTC).
func ParseMonthLabel(label string) (time.Time, error) {
	return time.Parse(MonthLabelFormat, label)
}

// toDate normalizes a timestamp to a pure calendar date at UTC midnight, so
// day arithmetic is immune to timezones and DST.
func toDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts calendar days between start and end, inclusive of both
// endpoints. Returns 0 when start is after end or either date is zero.
func DaysInclusive(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	s, e := toDate(start), toDate(end)
	if s.After(e) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// MonthStarts returns the first day of every calendar month intersecting
// [start, end], in chronological order. Empty when the range is invalid.
func MonthStarts(start, end time.Time) []time.Time {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	s, e := toDate(start), toDate(end)
	if s.After(e) {
		return nil
	}
	var months []time.Time
	cur := time.Date(s.Year(), s.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(e) {
		months = append(months, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// Prorate splits amount into calendar-month shares weighted by the number of
// days each month contributes to [start, end] (inclusive). Keys are canonical
// month labels.
//
// Invalid ranges (zero dates, start after end) yield an empty map rather than
// an error: a malformed burst contributes zero, it never aborts a schedule.
// Shares sum to amount within decimal division precision; no rounding-residue
// correction is applied.
func Prorate(start, end time.Time, amount decimal.Decimal) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal)

	totalDays := DaysInclusive(start, end)
	if totalDays <= 0 {
		log.Debugf("prorate: invalid date range (%v - %v), contributing zero", start, end)
		return shares
	}

	s, e := toDate(start), toDate(end)
	total := decimal.NewFromInt(int64(totalDays))

	for _, monthStart := range MonthStarts(s, e) {
		monthEnd := monthStart.AddDate(0, 1, -1)

		sliceStart := s
		if monthStart.After(sliceStart) {
			sliceStart = monthStart
		}
		sliceEnd := e
		if monthEnd.Before(sliceEnd) {
			sliceEnd = monthEnd
		}

		days := DaysInclusive(sliceStart, sliceEnd)
		share := amount.Mul(decimal.NewFromInt(int64(days))).Div(total)
		shares[MonthLabel(monthStart)] = share
	}

	return shares
}

// OverlapShare prorates amount by the fraction of [start, end] that falls
// inside the window [winStart, winEnd]. All boundaries are inclusive calendar
// days. Zero when the range is invalid or the two ranges do not intersect.
//
// This is the generalized form of Prorate used by the dashboard, where the
// target bucket is a financial year or a rolling window instead of a calendar
// month.
func OverlapShare(start, end time.Time, amount decimal.Decimal, winStart, winEnd time.Time) decimal.Decimal {
	totalDays := DaysInclusive(start, end)
	if totalDays <= 0 {
		return decimal.Zero
	}

	s, e := toDate(start), toDate(end)
	ws, we := toDate(winStart), toDate(winEnd)

	overlapStart := s
	if ws.After(overlapStart) {
		overlapStart = ws
	}
	overlapEnd := e
	if we.Before(overlapEnd) {
		overlapEnd = we
	}

	overlapDays := DaysInclusive(overlapStart, overlapEnd)
	if overlapDays <= 0 {
		return decimal.Zero
	}

	return amount.
		Mul(decimal.NewFromInt(int64(overlapDays))).
		Div(decimal.NewFromInt(int64(totalDays)))
}
