package fees

import (
	"testing"

	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/burst"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var card = AdServingRateCard{
	VideoRate:      decimal.NewFromInt(35),
	AudioRate:      decimal.NewFromInt(5),
	DisplayRate:    decimal.RequireFromString("2.5"),
	ImpressionRate: decimal.RequireFromString("0.25"),
}

func TestRateCategoryFor(t *testing.T) {
	videoLike := []mediaplan.MediaType{
		mediaplan.MediaTypeProgVideo, mediaplan.MediaTypeProgBVOD,
		mediaplan.MediaTypeDigitalVideo, mediaplan.MediaTypeBVOD,
	}
	for _, mt := range videoLike {
		assert.Equal(t, RateCategoryVideo, RateCategoryFor(mt), "media type %s", mt)
	}

	audioLike := []mediaplan.MediaType{mediaplan.MediaTypeProgAudio, mediaplan.MediaTypeDigitalAudio}
	for _, mt := range audioLike {
		assert.Equal(t, RateCategoryAudio, RateCategoryFor(mt), "media type %s", mt)
	}

	displayLike := []mediaplan.MediaType{mediaplan.MediaTypeProgDisplay, mediaplan.MediaTypeDigitalDisplay}
	for _, mt := range displayLike {
		assert.Equal(t, RateCategoryDisplay, RateCategoryFor(mt), "media type %s", mt)
	}

	assert.Equal(t, RateCategoryImpression, RateCategoryFor(mediaplan.MediaTypeTelevision))
	assert.Equal(t, RateCategoryImpression, RateCategoryFor(mediaplan.MediaTypeSearch))
	assert.Equal(t, RateCategoryImpression, RateCategoryFor(mediaplan.MediaTypeSocialMedia))
}

func TestAdServingFee(t *testing.T) {
	t.Run("cpm buys are billed per thousand deliverables", func(t *testing.T) {
		// given 150,000 impressions of programmatic video at $35 CPM
		b := burst.Burst{
			MediaType:    mediaplan.MediaTypeProgVideo,
			BuyType:      burst.BuyTypeCPM,
			Deliverables: decimal.NewFromInt(150000),
		}

		// when
		fee := AdServingFee(b, card)

		// then
		assert.True(t, fee.Equal(decimal.NewFromInt(5250)), "fee: %s", fee)
	})

	t.Run("non-cpm buys are billed per deliverable", func(t *testing.T) {
		b := burst.Burst{
			MediaType:    mediaplan.MediaTypeDigitalAudio,
			BuyType:      burst.BuyTypeCPC,
			Deliverables: decimal.NewFromInt(200),
		}

		fee := AdServingFee(b, card)

		assert.True(t, fee.Equal(decimal.NewFromInt(1000)), "fee: %s", fee)
	})

	t.Run("no ad serving flag zeroes the fee", func(t *testing.T) {
		b := burst.Burst{
			MediaType:    mediaplan.MediaTypeProgVideo,
			BuyType:      burst.BuyTypeCPM,
			Deliverables: decimal.NewFromInt(150000),
			NoAdServing:  true,
		}

		fee := AdServingFee(b, card)

		assert.True(t, fee.IsZero())
	})

	t.Run("unlisted media types use the impression rate", func(t *testing.T) {
		b := burst.Burst{
			MediaType:    mediaplan.MediaTypeOOH,
			BuyType:      burst.BuyTypeFixedCost,
			Deliverables: decimal.NewFromInt(1000),
		}

		fee := AdServingFee(b, card)

		assert.True(t, fee.Equal(decimal.NewFromInt(250)), "fee: %s", fee)
	})
}
