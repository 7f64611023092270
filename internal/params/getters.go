package params

import (
	"encoding/json"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tidwall/gjson"
)

// value reads from s and substitutes fallback if the store misbehaves.
func value(s Store, name string, item int, fallback any) (v any) {
	defer func() {
		if r := recover(); r != nil {
			v = fallback
		}
	}()
	return s.Value(name, item, fallback)
}

// String reads a string parameter; numbers and booleans are converted.
func String(s Store, name string, item int, fallback string) string {
	var out string
	if mapstructure.WeakDecode(value(s, name, item, fallback), &out) != nil {
		return fallback
	}
	return out
}

// Bool reads a boolean parameter; "true", "1" and 1 are accepted.
func Bool(s Store, name string, item int, fallback bool) bool {
	var out bool
	if mapstructure.WeakDecode(value(s, name, item, fallback), &out) != nil {
		return fallback
	}
	return out
}

// Map reads an object parameter given as a mapping or as a JSON string.
func Map(s Store, name string, item int) map[string]any {
	switch v := value(s, name, item, nil).(type) {
	case map[string]any:
		return v
	case string:
		m, _ := objectFromJSON(v)
		return m
	}
	return nil
}

// Maps reads a list-of-objects parameter given as a list or as a JSON
// string. A wrapping {"<wrapper>": [...]} object is unwrapped.
func Maps(s Store, name string, item int, wrapper string) ([]map[string]any, error) {
	raw := value(s, name, item, nil)
	if str, ok := raw.(string); ok {
		if strings.TrimSpace(str) == "" {
			return nil, nil
		}
		if !gjson.Valid(str) {
			return nil, &ParamError{Name: name, Item: item, Reason: "invalid JSON"}
		}
		parsed := gjson.Parse(str)
		if parsed.IsObject() && wrapper != "" {
			parsed = parsed.Get(wrapper)
		}
		raw = parsed.Value()
	}
	if m, ok := raw.(map[string]any); ok && wrapper != "" {
		raw = m[wrapper]
	}
	if raw == nil {
		return nil, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, &ParamError{Name: name, Item: item, Reason: "must be a list of objects"}
	}
	out := make([]map[string]any, 0, len(list))
	for _, it := range list {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, &ParamError{Name: name, Item: item, Reason: "must be a list of objects"}
		}
		out = append(out, m)
	}
	return out, nil
}

// JSON reads a parameter meant to hold a JSON document. Structured values
// are encoded so templates may also be written inline in YAML.
func JSON(s Store, name string, item int) string {
	switch v := value(s, name, item, "").(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func objectFromJSON(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !gjson.Valid(s) {
		return nil, false
	}
	m, ok := gjson.Parse(s).Value().(map[string]any)
	return m, ok
}
