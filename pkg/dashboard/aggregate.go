package dashboard

import (
	"sort"
	"time"

	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/proration"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// SelectedPlan pairs a plan's selected version with its persisted delivery
// entries, ready for aggregation.
type SelectedPlan struct {
	Plan    mediaplan.MediaPlan
	Version mediaplan.PlanVersion
	Entries []DeliveryEntry
}

// Aggregate buckets delivered spend into the financial year containing the
// reference date and the rolling 30-day window ending on it.
//
// Month-label entries are prorated into each window by day overlap; daily
// entries count all-or-nothing by whether the day falls inside the window.
// Plans without any usable delivery entry degrade to a straight-line estimate
// of their budget across the campaign's window overlap, split evenly across
// the media types they declare. The cutover is sharp: a plan with real
// delivery data never mixes in estimated figures.
func Aggregate(clientSlug string, plans []SelectedPlan, reference time.Time) Metrics {
	fyStart, fyEnd := FYWindow(reference)
	rollStart, rollEnd := RollingWindow(reference)

	metrics := Metrics{
		ClientSlug:      clientSlug,
		FYStart:         fyStart,
		FYEnd:           fyEnd,
		FYSpend:         decimal.Zero,
		Last30DaysSpend: decimal.Zero,
	}

	byMediaType := make(map[string]decimal.Decimal)
	byCampaign := make(map[string]decimal.Decimal)

	for _, selected := range plans {
		if hasUsableEntries(selected.Entries) {
			aggregateDelivered(selected, fyStart, fyEnd, rollStart, rollEnd, &metrics, byMediaType, byCampaign)
		} else {
			aggregateEstimated(selected, fyStart, fyEnd, rollStart, rollEnd, &metrics, byMediaType, byCampaign)
			metrics.EstimatedPlans = append(metrics.EstimatedPlans, selected.Plan.MbaNumber)
		}
	}

	metrics.MediaTypeBreakdown = toBreakdown(byMediaType, metrics.FYSpend)
	metrics.CampaignBreakdown = toBreakdown(byCampaign, metrics.FYSpend)
	return metrics
}

func aggregateDelivered(
	selected SelectedPlan,
	fyStart, fyEnd, rollStart, rollEnd time.Time,
	metrics *Metrics,
	byMediaType, byCampaign map[string]decimal.Decimal,
) {
	for _, entry := range selected.Entries {
		entryStart, entryEnd, daily, ok := entryRange(entry)
		if !ok {
			log.Warnf("delivery entry %q on plan %s is unparseable, contributing zero",
				entry.MonthYear, selected.Plan.MbaNumber)
			continue
		}

		fyShare := windowShare(entryStart, entryEnd, daily, entry.Amount(), fyStart, fyEnd)
		rollShare := windowShare(entryStart, entryEnd, daily, entry.Amount(), rollStart, rollEnd)
		metrics.FYSpend = metrics.FYSpend.Add(fyShare)
		metrics.Last30DaysSpend = metrics.Last30DaysSpend.Add(rollShare)

		if fyShare.IsZero() {
			continue
		}
		// Breakdowns follow the FY window only, scaled by the same share the
		// entry contributed to the FY total.
		for _, mt := range entry.MediaTypes {
			groupAmount := decimal.Zero
			for _, item := range mt.LineItems {
				groupAmount = groupAmount.Add(decimal.NewFromFloat(item.Amount))
			}
			share := windowShare(entryStart, entryEnd, daily, groupAmount, fyStart, fyEnd)
			byMediaType[mt.MediaType] = byMediaType[mt.MediaType].Add(share)
		}
		byCampaign[selected.Plan.CampaignName] = byCampaign[selected.Plan.CampaignName].Add(fyShare)
	}
}

func aggregateEstimated(
	selected SelectedPlan,
	fyStart, fyEnd, rollStart, rollEnd time.Time,
	metrics *Metrics,
	byMediaType, byCampaign map[string]decimal.Decimal,
) {
	version := selected.Version
	fyShare := proration.OverlapShare(version.CampaignStart, version.CampaignEnd, version.Budget, fyStart, fyEnd)
	rollShare := proration.OverlapShare(version.CampaignStart, version.CampaignEnd, version.Budget, rollStart, rollEnd)

	metrics.FYSpend = metrics.FYSpend.Add(fyShare)
	metrics.Last30DaysSpend = metrics.Last30DaysSpend.Add(rollShare)
	if fyShare.IsZero() {
		return
	}
	byCampaign[selected.Plan.CampaignName] = byCampaign[selected.Plan.CampaignName].Add(fyShare)

	mediaTypes := declaredMediaTypes(version)
	if len(mediaTypes) == 0 {
		return
	}
	perType := fyShare.Div(decimal.NewFromInt(int64(len(mediaTypes))))
	for _, mt := range mediaTypes {
		byMediaType[mt] = byMediaType[mt].Add(perType)
	}
}

// entryRange infers the granularity of an entry: a canonical month label spans
// its whole calendar month, a parseable date is a single-day entry.
func entryRange(entry DeliveryEntry) (start, end time.Time, daily, ok bool) {
	if monthStart, err := proration.ParseMonthLabel(entry.MonthYear); err == nil {
		return monthStart, monthStart.AddDate(0, 1, -1), false, true
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if day, err := time.Parse(layout, entry.MonthYear); err == nil {
			return day, day, true, true
		}
	}
	return time.Time{}, time.Time{}, false, false
}

// windowShare computes an entry's contribution to one window: day-overlap
// proration for month entries, all-or-nothing inclusion for daily entries.
func windowShare(entryStart, entryEnd time.Time, daily bool, amount decimal.Decimal, winStart, winEnd time.Time) decimal.Decimal {
	if daily {
		if dayInWindow(entryStart, winStart, winEnd) {
			return amount
		}
		return decimal.Zero
	}
	return proration.OverlapShare(entryStart, entryEnd, amount, winStart, winEnd)
}

func dayInWindow(day, winStart, winEnd time.Time) bool {
	d := dateOnly(day)
	return !d.Before(dateOnly(winStart)) && !d.After(dateOnly(winEnd))
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func declaredMediaTypes(version mediaplan.PlanVersion) []string {
	seen := make(map[mediaplan.MediaType]bool)
	for _, item := range version.LineItems {
		seen[item.MediaType] = true
	}
	var types []string
	for _, mt := range mediaplan.AllMediaTypes {
		if seen[mt] {
			types = append(types, string(mt))
		}
	}
	return types
}

// toBreakdown drops zero groups, normalizes percentages against the FY total,
// and orders slices largest first for stable chart output.
func toBreakdown(groups map[string]decimal.Decimal, total decimal.Decimal) []BreakdownSlice {
	var slices []BreakdownSlice
	for label, amount := range groups {
		if amount.IsZero() {
			continue
		}
		slice := BreakdownSlice{Label: label, Amount: amount}
		if total.IsPositive() {
			slice.Percentage = amount.Div(total).Mul(decimal.NewFromInt(100))
		}
		slices = append(slices, slice)
	}
	sort.Slice(slices, func(i, j int) bool {
		if !slices[i].Amount.Equal(slices[j].Amount) {
			return slices[i].Amount.GreaterThan(slices[j].Amount)
		}
		return slices[i].Label < slices[j].Label
	})
	return slices
}

func hasUsableEntries(entries []DeliveryEntry) bool {
	for _, entry := range entries {
		if _, _, _, ok := entryRange(entry); ok {
			return true
		}
	}
	return false
}
