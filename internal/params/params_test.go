package params

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/json2video/internal/schema"
)

// brokenStore panics on every read, like a host that throws on absent values.
type brokenStore struct{}

func (brokenStore) Value(string, int, any) any { panic("host failure") }
func (brokenStore) Len() int                   { return 1 }

func TestParse(t *testing.T) {
	t.Run("Should treat a single mapping as one item", func(t *testing.T) {
		s, err := Parse([]byte("recordId: rec-1\ncomment: hello\n"))
		require.NoError(t, err)
		assert.Equal(t, 1, s.Len())
		assert.Equal(t, "rec-1", s.Value("recordId", 0, ""))
	})

	t.Run("Should read a sequence of items", func(t *testing.T) {
		s, err := Parse([]byte(`[{"recordId": "a"}, {"recordId": "b"}]`))
		require.NoError(t, err)
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, "b", s.Value("recordId", 1, ""))
	})

	t.Run("Should apply shared defaults", func(t *testing.T) {
		s, err := Parse([]byte(`
defaults:
  comment: shared
items:
  - recordId: a
  - recordId: b
    comment: own
`))
		require.NoError(t, err)
		assert.Equal(t, "shared", s.Value("comment", 0, ""))
		assert.Equal(t, "own", s.Value("comment", 1, ""))
	})

	t.Run("Should reject unusable documents", func(t *testing.T) {
		_, err := Parse([]byte(""))
		assert.ErrorIs(t, err, ErrMissing)

		_, err = Parse([]byte("- 1\n- 2\n"))
		assert.Error(t, err)

		_, err = Parse([]byte("just text"))
		assert.Error(t, err)

		_, err = Parse([]byte("a: [unclosed"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recordId: rec-9\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rec-9", String(s, "recordId", 0, ""))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMapStore_Lookup(t *testing.T) {
	s := NewMapStore(map[string]any{"comment": "x", "empty": nil})

	_, err := s.Lookup("empty", 0)
	assert.True(t, errors.Is(err, ErrMissing))
	_, err = s.Lookup("comment", 5)
	assert.ErrorIs(t, err, ErrMissing)
	assert.Equal(t, "fallback", s.Value("comment", 5, "fallback"))
}

func TestGetters(t *testing.T) {
	s := NewMapStore(map[string]any{
		"flag":     "true",
		"count":    42,
		"settings": `{"width": 1280}`,
		"object":   map[string]any{"height": 720},
	})

	t.Run("Should convert loosely typed values", func(t *testing.T) {
		assert.True(t, Bool(s, "flag", 0, false))
		assert.Equal(t, "42", String(s, "count", 0, ""))
		assert.Equal(t, map[string]any{"width": float64(1280)}, Map(s, "settings", 0))
		assert.Equal(t, map[string]any{"height": 720}, Map(s, "object", 0))
	})

	t.Run("Should fall back when values cannot convert", func(t *testing.T) {
		assert.False(t, Bool(s, "object", 0, false))
		assert.Nil(t, Map(s, "count", 0))
		assert.Equal(t, "dflt", String(s, "missing", 0, "dflt"))
	})

	t.Run("Should substitute fallbacks when the store panics", func(t *testing.T) {
		var b brokenStore
		assert.Equal(t, "dflt", String(b, "recordId", 0, "dflt"))
		assert.True(t, Bool(b, "advancedMode", 0, true))
		assert.Nil(t, Map(b, "outputSettings", 0))
		assert.Equal(t, "", JSON(b, "jsonTemplate", 0))
		out, err := Maps(b, "elements", 0, "")
		assert.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("Should encode structured templates as JSON", func(t *testing.T) {
		st := NewMapStore(map[string]any{"jsonTemplate": map[string]any{"scenes": []any{}}})
		assert.JSONEq(t, `{"scenes": []}`, JSON(st, "jsonTemplate", 0))
	})
}

func TestMaps(t *testing.T) {
	t.Run("Should read lists, JSON strings and wrapped values", func(t *testing.T) {
		want := []map[string]any{{"type": "text", "text": "Hi"}}
		for _, raw := range []any{
			[]any{map[string]any{"type": "text", "text": "Hi"}},
			`[{"type": "text", "text": "Hi"}]`,
			`{"elementValues": [{"type": "text", "text": "Hi"}]}`,
			map[string]any{"elementValues": []any{map[string]any{"type": "text", "text": "Hi"}}},
		} {
			s := NewMapStore(map[string]any{"elements": raw})
			got, err := Maps(s, "elements", 0, "elementValues")
			require.NoError(t, err, raw)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Should report unusable values", func(t *testing.T) {
		for _, raw := range []any{`[{"type":`, `[1, 2]`, 7} {
			s := NewMapStore(map[string]any{"elements": raw})
			_, err := Maps(s, "elements", 0, "elementValues")
			var perr *ParamError
			assert.ErrorAs(t, err, &perr, raw)
		}
	})
}

func TestCollect(t *testing.T) {
	t.Run("Should collect structured input", func(t *testing.T) {
		s := NewMapStore(map[string]any{
			"recordId":       "rec-1",
			"comment":        "promo",
			"outputSettings": map[string]any{"width": 1280, "height": 720},
			"elements":       `[{"type": "video", "src": "v.mp4"}]`,
			"subtitles":      map[string]any{"captions": "c.srt"},
			"exports": []any{map[string]any{"destinations": []any{
				map[string]any{"type": "email", "to": "ops@example.com"},
			}}},
		})

		in, err := Collect(s, 0)
		require.NoError(t, err)

		assert.False(t, in.AdvancedMode)
		assert.Equal(t, "rec-1", in.RecordID)
		assert.Equal(t, "promo", in.Comment)
		assert.Equal(t, map[string]any{"width": 1280, "height": 720}, in.OutputSettings)
		assert.Equal(t, []map[string]any{{"type": "video", "src": "v.mp4"}}, in.Elements)
		assert.Equal(t, map[string]any{"captions": "c.srt"}, in.Subtitles)
		require.Len(t, in.Exports, 1)
		assert.Equal(t, schema.Recipients{"ops@example.com"}, in.Exports[0].Destinations[0].To)
	})

	t.Run("Should collect only the template in advanced mode", func(t *testing.T) {
		s := NewMapStore(map[string]any{
			"advancedMode": true,
			"jsonTemplate": `{"scenes": []}`,
			"elements":     "{broken",
		})

		in, err := Collect(s, 0)
		require.NoError(t, err)
		assert.True(t, in.AdvancedMode)
		assert.Equal(t, `{"scenes": []}`, in.JSONTemplate)
		assert.Nil(t, in.Elements)
	})

	t.Run("Should fail on malformed element JSON", func(t *testing.T) {
		_, err := Collect(NewMapStore(map[string]any{"elements": "{broken"}), 0)
		assert.Error(t, err)
	})
}
