package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
)

type fieldKind int

const (
	plain fieldKind = iota
	// jsonish fields may arrive as a JSON string; unparsable strings are dropped.
	jsonish
	// jsonishRaw fields fall back to the raw string when it does not parse.
	jsonishRaw
)

// field maps input spellings to one canonical API name.
type field struct {
	name    string
	aliases []string
	kind    fieldKind
}

func f(name string, aliases ...string) field {
	return field{name: name, aliases: aliases}
}

func j(name string, aliases ...string) field {
	return field{name: name, aliases: aliases, kind: jsonish}
}

func jr(name string, aliases ...string) field {
	return field{name: name, aliases: aliases, kind: jsonishRaw}
}

// ParseJSONish decodes v when it is a JSON string and passes any other
// non-nil value through. ok is false for blank or unparsable strings.
func ParseJSONish(v any) (any, bool) {
	s, isString := v.(string)
	if !isString {
		return v, v != nil
	}
	s = strings.TrimSpace(s)
	if s == "" || !gjson.Valid(s) {
		return nil, false
	}
	return gjson.Parse(s).Value(), true
}

// lookup returns the first non-nil value under the canonical name or one of
// its aliases.
func (fd field) lookup(raw map[string]any) (any, bool) {
	if v, ok := raw[fd.name]; ok && v != nil {
		return v, true
	}
	for _, alias := range fd.aliases {
		if v, ok := raw[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// resolve produces the value to emit for fd, or false to omit the field.
func (fd field) resolve(raw map[string]any) (any, bool) {
	v, ok := fd.lookup(raw)
	if !ok {
		return nil, false
	}

	switch fd.kind {
	case jsonish:
		parsed, ok := ParseJSONish(v)
		if !ok || isEmptyObject(parsed) {
			return nil, false
		}
		v = parsed
	case jsonishRaw:
		if parsed, ok := ParseJSONish(v); ok {
			v = parsed
		} else if s, isString := v.(string); isString && strings.TrimSpace(s) != "" {
			v = strings.TrimSpace(s)
		} else {
			return nil, false
		}
	}

	if !ShouldInclude(fd.name, v) {
		return nil, false
	}
	return v, true
}

func apply(dst, raw map[string]any, fields []field) {
	for _, fd := range fields {
		if v, ok := fd.resolve(raw); ok {
			dst[fd.name] = v
		}
	}
}

func isEmptyObject(v any) bool {
	m, ok := v.(map[string]any)
	return ok && len(m) == 0
}
