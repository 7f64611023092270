package normalize

import (
	"reflect"
	"strings"

	"github.com/ivlev/json2video/internal/schema"
)

// BaselineTextStyle is the API's default text style id.
const BaselineTextStyle = "001"

// apiDefaults maps canonical field names to the value the API assumes when
// the field is omitted. Never mutated.
var apiDefaults = map[string]any{
	"start":           0,
	"duration":        -1,
	"extra-time":      0,
	"z-index":         0,
	"fade-in":         0,
	"fade-out":        0,
	"position":        "center-center",
	"x":               0,
	"y":               0,
	"width":           -1,
	"height":          -1,
	"resize":          "",
	"zoom":            0,
	"pan":             "",
	"pan-distance":    0.1,
	"pan-crop":        true,
	"flip-horizontal": false,
	"flip-vertical":   false,
	"mask":            "",
	"volume":          1,
	"muted":           false,
	"loop":            0,
	"seek":            0,
	"cache":           true,
	"model":           "flux-schnell",
	"voice":           "en-US-AvaMultilingualNeural",
	"connection":      "",
	"tailwindcss":     false,
	"wait":            2,
	"color":           "#ffffff",
	"opacity":         0.5,
	"amplitude":       5,
	"style":           BaselineTextStyle,
}

// Default returns the documented API default for a canonical field name.
func Default(field string) (any, bool) {
	v, ok := apiDefaults[field]
	return v, ok
}

// ShouldInclude reports whether a field carries information worth sending:
// it is set, not a blank string and not equal to the API default.
func ShouldInclude(field string, value any) bool {
	if value == nil {
		return false
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return false
	}
	def, ok := apiDefaults[field]
	if !ok {
		return true
	}
	return !sameValue(value, def)
}

func sameValue(a, b any) bool {
	if an, ok := schema.AsNumber(a); ok {
		bn, ok := schema.AsNumber(b)
		return ok && an == bn
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && strings.TrimSpace(as) == bs
	}
	return reflect.DeepEqual(a, b)
}
