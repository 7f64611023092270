// Package normalize turns permissive user-facing element fields into the
// exact field names and shapes the video API expects, dropping every field
// that only repeats an API default.
package normalize

import (
	"strings"

	"github.com/ivlev/json2video/internal/schema"
)

var commonFields = []field{
	f("id"),
	f("comment"),
	f("condition"),
	j("variables"),
	f("cache"),
	f("start"),
	f("duration"),
	f("extra-time", "extraTime"),
	f("z-index", "zIndex"),
	f("fade-in", "fadeIn"),
	f("fade-out", "fadeOut"),
}

var visualFields = []field{
	f("position"),
	f("x"),
	f("y"),
	f("width"),
	f("height"),
	f("resize"),
	j("crop"),
	j("rotate"),
	f("pan"),
	f("pan-distance", "panDistance"),
	f("pan-crop", "panCrop"),
	f("zoom"),
	f("flip-horizontal", "flipHorizontal"),
	f("flip-vertical", "flipVertical"),
	f("mask"),
	j("chroma-key", "chromaKey"),
	j("correction"),
}

var soundFields = []field{
	f("volume"),
	f("muted"),
}

var playbackFields = []field{
	f("loop"),
	f("seek"),
}

var typeFields = map[schema.ElementType][]field{
	schema.TypeVideo: {f("src")},
	schema.TypeAudio: {f("src")},
	schema.TypeAudiogram: {
		f("src"),
		f("color"),
		f("opacity"),
		f("amplitude"),
	},
	schema.TypeImage: {
		f("src"),
		f("prompt"),
		f("model"),
		f("connection"),
		jr("aspect-ratio", "aspectRatio"),
		jr("model-settings", "modelSettings"),
	},
	schema.TypeText: {
		f("text"),
		j("settings", "textSettings"),
		f("style", "textStyle"),
	},
	schema.TypeVoice: {
		f("text"),
		f("voice"),
		f("model"),
		f("connection"),
	},
	schema.TypeComponent: {
		f("component"),
		j("settings"),
	},
	schema.TypeHTML: {
		f("src"),
		f("html"),
		f("tailwindcss"),
		f("wait"),
	},
	schema.TypeSubtitles: {
		f("captions"),
		f("language"),
		j("settings"),
	},
}

// TypeOf returns the element discriminator, trimmed and lower-cased, or ""
// when the raw element carries no usable type.
func TypeOf(raw map[string]any) schema.ElementType {
	s, ok := raw["type"].(string)
	if !ok {
		return ""
	}
	return schema.ElementType(strings.ToLower(strings.TrimSpace(s)))
}

// Element normalizes one raw element. Only fields known for the element's
// type survive, under their canonical names, and only when meaningful.
// Normalizing an already-normalized element returns an equal element.
func Element(raw map[string]any) schema.Element {
	t := TypeOf(raw)
	out := make(map[string]any)

	apply(out, raw, commonFields)
	if schema.Allowed(schema.VisualElementTypes, t) {
		apply(out, raw, visualFields)
	}
	switch t {
	case schema.TypeVideo, schema.TypeAudio:
		apply(out, raw, soundFields)
		apply(out, raw, playbackFields)
	case schema.TypeVoice:
		apply(out, raw, soundFields)
	}
	apply(out, raw, typeFields[t])

	return schema.NewElement(t, out)
}

// Elements normalizes a list of raw elements in order.
func Elements(raws []map[string]any) []schema.Element {
	out := make([]schema.Element, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Element(raw))
	}
	return out
}
