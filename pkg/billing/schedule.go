package billing

import (
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/burst"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/fees"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/proration"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// MonthBucket holds one calendar month's spend for a plan.
type MonthBucket struct {
	Label        string                                    `json:"label"`
	MediaCosts   map[mediaplan.MediaType]decimal.Decimal   `json:"mediaCosts"`
	TotalMedia   decimal.Decimal                           `json:"totalMedia"`
	TotalFee     decimal.Decimal                           `json:"totalFee"`
	AdServingFee decimal.Decimal                           `json:"adServingFee"`
	Production   decimal.Decimal                           `json:"production"`
	TotalAmount  decimal.Decimal                           `json:"totalAmount"`
}

// Schedule is the month-by-month billing table for one plan version. Months
// are ordered chronologically and cover every calendar month from campaign
// start to campaign end with no gaps, including zero-spend months.
type Schedule struct {
	MbaNumber     string          `json:"mbaNumber"`
	VersionNumber int             `json:"versionNumber"`
	Months        []MonthBucket   `json:"months"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	// Manual marks a user-edited schedule that supersedes the computed one.
	Manual bool `json:"manual"`
}

// BuildSchedule computes the full billing schedule for a plan version from
// its line items. It is pure: identical inputs rebuild an identical schedule.
// Media types are visited in their declared order and bursts in stored order
// so the accumulation order, and therefore the output, is stable.
func BuildSchedule(version mediaplan.PlanVersion, params fees.ModelParameters, card fees.AdServingRateCard) Schedule {
	schedule := Schedule{
		MbaNumber:     version.MbaNumber,
		VersionNumber: version.VersionNumber,
	}

	monthStarts := proration.MonthStarts(version.CampaignStart, version.CampaignEnd)
	if len(monthStarts) == 0 {
		log.Warnf("plan %s v%d has no valid campaign date range, schedule is empty",
			version.MbaNumber, version.VersionNumber)
		schedule.Months = []MonthBucket{}
		schedule.GrandTotal = decimal.Zero
		return schedule
	}

	buckets := make(map[string]*MonthBucket, len(monthStarts))
	schedule.Months = make([]MonthBucket, 0, len(monthStarts))
	for _, monthStart := range monthStarts {
		label := proration.MonthLabel(monthStart)
		buckets[label] = &MonthBucket{
			Label:        label,
			MediaCosts:   make(map[mediaplan.MediaType]decimal.Decimal),
			TotalMedia:   decimal.Zero,
			TotalFee:     decimal.Zero,
			AdServingFee: decimal.Zero,
			Production:   decimal.Zero,
			TotalAmount:  decimal.Zero,
		}
	}

	for _, mediaType := range mediaplan.AllMediaTypes {
		for _, item := range version.LineItems {
			if item.MediaType != mediaType {
				continue
			}
			for _, b := range burst.NormalizeLineItem(item, params.DefaultPercentage) {
				accumulateBurst(version, b, params, card, buckets)
			}
		}
	}

	grandTotal := decimal.Zero
	for _, monthStart := range monthStarts {
		bucket := buckets[proration.MonthLabel(monthStart)]
		bucket.TotalAmount = bucket.TotalMedia.
			Add(bucket.TotalFee).
			Add(bucket.AdServingFee).
			Add(bucket.Production)
		grandTotal = grandTotal.Add(bucket.TotalAmount)
		schedule.Months = append(schedule.Months, *bucket)
	}
	schedule.GrandTotal = grandTotal

	return schedule
}

func accumulateBurst(
	version mediaplan.PlanVersion,
	b burst.Burst,
	params fees.ModelParameters,
	card fees.AdServingRateCard,
	buckets map[string]*MonthBucket,
) {
	split := fees.Allocate(b, params)

	for label, share := range proration.Prorate(b.StartDate, b.EndDate, split.MediaAmount) {
		bucket, ok := buckets[label]
		if !ok {
			log.Warnf("burst on %s spills outside campaign range of plan %s v%d (%s), share dropped",
				b.MediaType, version.MbaNumber, version.VersionNumber, label)
			continue
		}
		bucket.MediaCosts[b.MediaType] = bucket.MediaCosts[b.MediaType].Add(share)
		bucket.TotalMedia = bucket.TotalMedia.Add(share)
	}

	for label, share := range proration.Prorate(b.StartDate, b.EndDate, split.FeeAmount) {
		if bucket, ok := buckets[label]; ok {
			bucket.TotalFee = bucket.TotalFee.Add(share)
		}
	}

	adServing := fees.AdServingFee(b, card)
	if adServing.IsZero() {
		return
	}
	for label, share := range proration.Prorate(b.StartDate, b.EndDate, adServing) {
		if bucket, ok := buckets[label]; ok {
			bucket.AdServingFee = bucket.AdServingFee.Add(share)
		}
	}
}
