package fees

import (
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/burst"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
)

// RateCategory is the coarse technology family used for ad-serving rate
// lookup. Several media types share one rate.
type RateCategory string

const (
	RateCategoryVideo      RateCategory = "video"
	RateCategoryAudio      RateCategory = "audio"
	RateCategoryDisplay    RateCategory = "display"
	RateCategoryImpression RateCategory = "impression"
)

// AdServingRateCard holds the unit rate per rate category.
type AdServingRateCard struct {
	VideoRate      decimal.Decimal
	AudioRate      decimal.Decimal
	DisplayRate    decimal.Decimal
	ImpressionRate decimal.Decimal
}

// RateCategoryFor maps a media type onto its ad-serving rate family. The
// grouping is contractual and must not drift: video-like covers programmatic
// and direct video plus BVOD, audio-like covers both audio channels,
// display-like covers both display channels, and every other media type is
// billed at the impression rate.
func RateCategoryFor(mt mediaplan.MediaType) RateCategory {
	switch mt {
	case mediaplan.MediaTypeProgVideo, mediaplan.MediaTypeProgBVOD, mediaplan.MediaTypeDigitalVideo, mediaplan.MediaTypeBVOD:
		return RateCategoryVideo
	case mediaplan.MediaTypeProgAudio, mediaplan.MediaTypeDigitalAudio:
		return RateCategoryAudio
	case mediaplan.MediaTypeProgDisplay, mediaplan.MediaTypeDigitalDisplay:
		return RateCategoryDisplay
	default:
		return RateCategoryImpression
	}
}

// Rate returns the unit rate for a media type.
func (c AdServingRateCard) Rate(mt mediaplan.MediaType) decimal.Decimal {
	switch RateCategoryFor(mt) {
	case RateCategoryVideo:
		return c.VideoRate
	case RateCategoryAudio:
		return c.AudioRate
	case RateCategoryDisplay:
		return c.DisplayRate
	default:
		return c.ImpressionRate
	}
}

var thousand = decimal.NewFromInt(1000)

// AdServingFee computes the total ad-serving technology fee for one burst.
// CPM buys are billed per thousand deliverables, every other buy type per
// deliverable. Bursts flagged NoAdServing cost nothing. The caller prorates
// the result across months using the burst's own date range.
func AdServingFee(b burst.Burst, card AdServingRateCard) decimal.Decimal {
	if b.NoAdServing {
		return decimal.Zero
	}
	rate := card.Rate(b.MediaType)
	if b.BuyType == burst.BuyTypeCPM {
		return b.Deliverables.Div(thousand).Mul(rate)
	}
	return b.Deliverables.Mul(rate)
}
