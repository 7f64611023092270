package schema

import (
	"slices"
	"strings"
)

// ElementType is the discriminator of the element union.
type ElementType string

const (
	TypeText      ElementType = "text"
	TypeSubtitles ElementType = "subtitles"
	TypeAudio     ElementType = "audio"
	TypeVoice     ElementType = "voice"
	TypeVideo     ElementType = "video"
	TypeImage     ElementType = "image"
	TypeComponent ElementType = "component"
	TypeAudiogram ElementType = "audiogram"
	TypeHTML      ElementType = "html"
)

// DestinationType is the discriminator of the export destination union.
type DestinationType string

const (
	DestinationWebhook DestinationType = "webhook"
	DestinationFTP     DestinationType = "ftp"
	DestinationEmail   DestinationType = "email"
)

// Sentinel durations accepted despite being non-positive.
const (
	DurationIntrinsic      = -1.0
	DurationMatchContainer = -2.0
)

// Output fallbacks used when the caller does not supply them.
const (
	DefaultWidth   = 1920
	DefaultHeight  = 1080
	DefaultQuality = "high"
)

const ResolutionCustom = "custom"

const PositionCustom = "custom"

// Element types allowed at the request root.
var MovieElementTypes = []ElementType{TypeText, TypeSubtitles, TypeAudio, TypeVoice}

// Element types allowed inside a scene. Subtitles are movie-level only.
var SceneElementTypes = []ElementType{
	TypeVideo, TypeAudio, TypeImage, TypeText, TypeVoice, TypeComponent, TypeAudiogram, TypeHTML,
}

// Element types whose src is mandatory.
var SourceRequiredTypes = []ElementType{TypeVideo, TypeAudio, TypeAudiogram}

// Element types that occupy screen space and accept layout fields.
var VisualElementTypes = []ElementType{TypeVideo, TypeImage, TypeText, TypeComponent, TypeAudiogram, TypeHTML}

var DestinationTypes = []DestinationType{DestinationWebhook, DestinationFTP, DestinationEmail}

var Qualities = []string{"low", "medium", "high"}

var Resolutions = []string{
	"sd", "hd", "full-hd", "squared",
	"instagram-story", "instagram-feed",
	"twitter-landscape", "twitter-portrait",
	ResolutionCustom,
}

var Positions = []string{
	PositionCustom,
	"top-left", "top-center", "top-right",
	"center-left", "center-center", "center-right",
	"bottom-left", "bottom-center", "bottom-right",
}

var ImageModels = []string{"flux-schnell", "flux-pro", "freepik-classic"}

var AspectRatios = []string{"horizontal", "vertical", "squared"}

var TTSModels = []string{"azure", "elevenlabs", "elevenlabs-flash-v2-5"}

// Range is an inclusive numeric bound.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	WidthRange  = Range{Min: 50, Max: 3840}
	HeightRange = Range{Min: 50, Max: 3840}
	ZIndexRange = Range{Min: -99, Max: 99}
	VolumeRange = Range{Min: 0, Max: 10}
	PortRange   = Range{Min: 1, Max: 65535}
)

// Allowed reports whether v is a member of list.
func Allowed[T ~string](list []T, v T) bool {
	return slices.Contains(list, v)
}

// Join renders an allow-list for error messages.
func Join[T ~string](list []T) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
