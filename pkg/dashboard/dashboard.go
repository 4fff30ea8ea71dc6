package dashboard

import (
	"time"

	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// DeliveryLineItem is one delivered amount inside a delivery schedule entry.
type DeliveryLineItem struct {
	Amount float64 `json:"amount"`
}

// DeliveryMediaType groups delivered line items under one media type label.
type DeliveryMediaType struct {
	MediaType string             `json:"mediaType"`
	LineItems []DeliveryLineItem `json:"lineItems"`
}

// DeliveryEntry is one persisted delivery record for a plan version. MonthYear
// carries either a month label ("March 2025") or a single day ("2025-03-14");
// the granularity is inferred at read time, not declared.
type DeliveryEntry struct {
	MonthYear  string              `json:"monthYear"`
	MediaTypes []DeliveryMediaType `json:"mediaTypes"`
}

// Amount sums every line item amount in the entry.
func (e DeliveryEntry) Amount() decimal.Decimal {
	total := decimal.Zero
	for _, mt := range e.MediaTypes {
		for _, item := range mt.LineItems {
			total = total.Add(decimal.NewFromFloat(item.Amount))
		}
	}
	return total
}

// BreakdownSlice is one group of a spend breakdown chart. Percentage is
// normalized against the financial-year total.
type BreakdownSlice struct {
	Label      string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// Metrics is the read-only dashboard aggregate for one client, or for the
// whole agency when ClientSlug is empty.
type Metrics struct {
	ClientSlug         string
	FYStart            time.Time
	FYEnd              time.Time
	FYSpend            decimal.Decimal
	Last30DaysSpend    decimal.Decimal
	MediaTypeBreakdown []BreakdownSlice
	CampaignBreakdown  []BreakdownSlice
	// EstimatedPlans lists MBA numbers whose figures come from the
	// straight-line budget estimate instead of real delivery data.
	EstimatedPlans []string
}

// SelectVersion picks the one version that represents an MBA number in
// read-only aggregations: the highest version number whose status qualifies
// for reporting, else the highest non-cancelled version with a warning.
// Cancelled versions are selected only when nothing else exists. Returns false
// only for an empty slice.
func SelectVersion(versions []mediaplan.PlanVersion) (mediaplan.PlanVersion, bool) {
	if len(versions) == 0 {
		return mediaplan.PlanVersion{}, false
	}

	var reportable, fallback, highest *mediaplan.PlanVersion
	for i := range versions {
		v := &versions[i]
		if highest == nil || v.VersionNumber > highest.VersionNumber {
			highest = v
		}
		if v.Status != mediaplan.StatusCancelled && (fallback == nil || v.VersionNumber > fallback.VersionNumber) {
			fallback = v
		}
		if v.Status.IsReportable() && (reportable == nil || v.VersionNumber > reportable.VersionNumber) {
			reportable = v
		}
	}
	if reportable != nil {
		return *reportable, true
	}
	if fallback == nil {
		fallback = highest
	}
	log.Warnf("plan %s has no booked, approved or completed version, reporting on v%d (%s)",
		fallback.MbaNumber, fallback.VersionNumber, fallback.Status)
	return *fallback, true
}

// FYWindow returns the Australian financial year (July 1 to June 30,
// inclusive) containing the reference date, at day boundaries in the
// reference's location.
func FYWindow(reference time.Time) (time.Time, time.Time) {
	year := reference.Year()
	if reference.Month() < time.July {
		year--
	}
	start := time.Date(year, time.July, 1, 0, 0, 0, 0, reference.Location())
	end := time.Date(year+1, time.June, 30, 0, 0, 0, 0, reference.Location())
	return start, end
}

// RollingWindow returns the 30 calendar days ending on the reference date,
// inclusive.
func RollingWindow(reference time.Time) (time.Time, time.Time) {
	end := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, reference.Location())
	return end.AddDate(0, 0, -29), end
}
