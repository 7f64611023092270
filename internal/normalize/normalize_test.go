package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/json2video/internal/schema"
)

func TestShouldInclude(t *testing.T) {
	tests := []struct {
		field string
		value any
		want  bool
	}{
		{"start", 0, false},
		{"start", 0.0, false},
		{"start", 1.5, true},
		{"duration", -1, false},
		{"duration", -2, true},
		{"position", "center-center", false},
		{"position", " center-center ", false},
		{"position", "top-left", true},
		{"volume", 1, false},
		{"volume", 0, true},
		{"model", "flux-schnell", false},
		{"model", "flux-pro", true},
		{"style", BaselineTextStyle, false},
		{"style", "003", true},
		{"src", "", false},
		{"src", "   ", false},
		{"src", nil, false},
		{"src", "https://cdn.example.com/a.mp4", true},
		{"flip-horizontal", false, false},
		{"flip-horizontal", true, true},
		{"unknown-field", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldInclude(tt.field, tt.value), "value %#v", tt.value)
		})
	}
}

func TestParseJSONish(t *testing.T) {
	t.Run("Should parse JSON strings", func(t *testing.T) {
		v, ok := ParseJSONish(`{"a": 1}`)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"a": float64(1)}, v)
	})

	t.Run("Should pass decoded values through", func(t *testing.T) {
		in := map[string]any{"a": 1}
		v, ok := ParseJSONish(in)
		require.True(t, ok)
		assert.Equal(t, in, v)
	})

	t.Run("Should reject blank and malformed strings", func(t *testing.T) {
		_, ok := ParseJSONish("  ")
		assert.False(t, ok)
		_, ok = ParseJSONish("{broken")
		assert.False(t, ok)
	})
}

func TestElement(t *testing.T) {
	t.Run("Should rename camelCase fields and drop defaults", func(t *testing.T) {
		el := Element(map[string]any{
			"type":     "video",
			"src":      "https://cdn.example.com/v.mp4",
			"start":    0,
			"duration": -1,
			"zIndex":   3,
			"fadeIn":   0.5,
			"position": "center-center",
			"volume":   0.4,
			"unknown":  "ignored",
		})

		assert.Equal(t, schema.TypeVideo, el.Type)
		assert.Equal(t, map[string]any{
			"src":     "https://cdn.example.com/v.mp4",
			"z-index": 3,
			"fade-in": 0.5,
			"volume":  0.4,
		}, el.Fields)
	})

	t.Run("Should silently drop unparsable JSON-ish fields", func(t *testing.T) {
		el := Element(map[string]any{
			"type":      "image",
			"src":       "https://cdn.example.com/a.png",
			"crop":      "{not json",
			"variables": `{"name":"x"}`,
		})

		assert.NotContains(t, el.Fields, "crop")
		assert.Equal(t, map[string]any{"name": "x"}, el.Fields["variables"])
	})

	t.Run("Should keep unparsable aspect-ratio and model-settings verbatim", func(t *testing.T) {
		el := Element(map[string]any{
			"type":          "image",
			"prompt":        "a red fox",
			"aspectRatio":   "horizontal",
			"modelSettings": "{oops",
		})

		assert.Equal(t, "horizontal", el.Fields["aspect-ratio"])
		assert.Equal(t, "{oops", el.Fields["model-settings"])
	})

	t.Run("Should parse model-settings when it is JSON", func(t *testing.T) {
		el := Element(map[string]any{
			"type":          "image",
			"prompt":        "a red fox",
			"modelSettings": `{"steps": 4}`,
		})

		assert.Equal(t, map[string]any{"steps": float64(4)}, el.Fields["model-settings"])
	})

	t.Run("Should map text settings and style", func(t *testing.T) {
		el := Element(map[string]any{
			"type":         "text",
			"text":         "Hello",
			"textSettings": `{"font-size":"40px"}`,
			"textStyle":    BaselineTextStyle,
		})
		assert.Equal(t, map[string]any{"font-size": "40px"}, el.Fields["settings"])
		assert.NotContains(t, el.Fields, "style")

		el = Element(map[string]any{"type": "text", "text": "Hello", "textSettings": "{}", "textStyle": "004"})
		assert.NotContains(t, el.Fields, "settings")
		assert.Equal(t, "004", el.Fields["style"])
	})

	t.Run("Should keep per-type extras only when non-default", func(t *testing.T) {
		voice := Element(map[string]any{"type": "voice", "text": "Hi", "model": "azure", "connection": ""})
		assert.Equal(t, map[string]any{"text": "Hi", "model": "azure"}, voice.Fields)

		html := Element(map[string]any{"type": "html", "html": "<p>x</p>", "tailwindcss": false, "wait": 5})
		assert.Equal(t, map[string]any{"html": "<p>x</p>", "wait": 5}, html.Fields)

		audiogram := Element(map[string]any{"type": "audiogram", "src": "a.mp3", "color": "#ffffff", "amplitude": 8})
		assert.Equal(t, map[string]any{"src": "a.mp3", "amplitude": 8}, audiogram.Fields)

		component := Element(map[string]any{"type": "component", "component": "basic/001", "settings": map[string]any{}})
		assert.Equal(t, map[string]any{"component": "basic/001"}, component.Fields)
	})

	t.Run("Should not carry layout fields onto audio elements", func(t *testing.T) {
		el := Element(map[string]any{"type": "audio", "src": "a.mp3", "x": 10, "position": "top-left"})
		assert.Equal(t, map[string]any{"src": "a.mp3"}, el.Fields)
	})

	t.Run("Should be idempotent", func(t *testing.T) {
		inputs := []map[string]any{
			{"type": "video", "src": "v.mp4", "zIndex": 2, "crop": `{"width":10,"height":10}`},
			{"type": "image", "prompt": "p", "aspectRatio": "vertical", "model": "flux-pro"},
			{"type": "text", "text": "t", "textSettings": `{"color":"red"}`, "textStyle": "002"},
			{"type": "subtitles", "captions": "x", "settings": `{"style":"classic"}`},
		}

		for _, raw := range inputs {
			once := Element(raw)
			twice := Element(once.Map())
			assert.Equal(t, once, twice)
		}
	})
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, schema.TypeVideo, TypeOf(map[string]any{"type": " Video "}))
	assert.Equal(t, schema.ElementType(""), TypeOf(map[string]any{"type": 3}))
	assert.Equal(t, schema.ElementType(""), TypeOf(map[string]any{}))
}
