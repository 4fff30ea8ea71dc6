package mediaplan

// MediaType identifies one bookable media channel.
type MediaType string

const (
	MediaTypeTelevision     MediaType = "television"
	MediaTypeRadio          MediaType = "radio"
	MediaTypeNewspaper      MediaType = "newspaper"
	MediaTypeMagazines      MediaType = "magazines"
	MediaTypeOOH            MediaType = "ooh"
	MediaTypeCinema         MediaType = "cinema"
	MediaTypeDigitalDisplay MediaType = "digital-display"
	MediaTypeDigitalAudio   MediaType = "digital-audio"
	MediaTypeDigitalVideo   MediaType = "digital-video"
	MediaTypeBVOD           MediaType = "bvod"
	MediaTypeSearch         MediaType = "search"
	MediaTypeSocialMedia    MediaType = "social-media"
	MediaTypeProgDisplay    MediaType = "prog-display"
	MediaTypeProgVideo      MediaType = "prog-video"
	MediaTypeProgBVOD       MediaType = "prog-bvod"
	MediaTypeProgAudio      MediaType = "prog-audio"
	MediaTypeProgOOH        MediaType = "prog-ooh"
	MediaTypeIntegration    MediaType = "integration"
)

// AllMediaTypes is the declared channel order. Schedule building iterates this
// slice so that rebuilt schedules accumulate in the same arithmetic order and
// stay byte-identical for identical inputs.
var AllMediaTypes = []MediaType{
	MediaTypeTelevision,
	MediaTypeRadio,
	MediaTypeNewspaper,
	MediaTypeMagazines,
	MediaTypeOOH,
	MediaTypeCinema,
	MediaTypeDigitalDisplay,
	MediaTypeDigitalAudio,
	MediaTypeDigitalVideo,
	MediaTypeBVOD,
	MediaTypeSearch,
	MediaTypeSocialMedia,
	MediaTypeProgDisplay,
	MediaTypeProgVideo,
	MediaTypeProgBVOD,
	MediaTypeProgAudio,
	MediaTypeProgOOH,
	MediaTypeIntegration,
}

// ParseMediaType returns the typed media type for a stored label.
func ParseMediaType(s string) (MediaType, bool) {
	for _, mt := range AllMediaTypes {
		if string(mt) == s {
			return mt, true
		}
	}
	return "", false
}
