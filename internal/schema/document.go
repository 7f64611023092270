package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var ErrNotObject = errors.New("value is not a JSON object")

// Document is the generic, JSON-shaped form of a request. The validator
// works on documents so it can report shape errors a typed struct would hide.
type Document map[string]any

func (d Document) Lookup(key string) (any, bool) {
	v, ok := d[key]
	return v, ok
}

// Object is anything exposing named fields.
type Object interface {
	Lookup(key string) (any, bool)
}

// Fields adapts a plain map to Object.
type Fields map[string]any

func (f Fields) Lookup(key string) (any, bool) {
	v, ok := f[key]
	return v, ok
}

// Document converts the typed request into its wire form.
func (r *Request) Document() (Document, error) {
	return ToDocument(r)
}

// ToDocument converts any JSON-serializable object into a Document.
func ToDocument(v any) (Document, error) {
	switch d := v.(type) {
	case Document:
		return d, nil
	case map[string]any:
		return Document(d), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if doc == nil {
		return nil, ErrNotObject
	}
	return doc, nil
}

// AsObject reports whether v can be read field by field.
func AsObject(v any) (Object, bool) {
	switch o := v.(type) {
	case nil:
		return nil, false
	case Document:
		return o, o != nil
	case map[string]any:
		return Fields(o), o != nil
	case Object:
		return o, true
	}
	return nil, false
}

// AsArray reports whether v is a list and returns its items.
func AsArray(v any) ([]any, bool) {
	switch a := v.(type) {
	case nil:
		return nil, false
	case []any:
		return a, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// AsNumber accepts every Go numeric type and json.Number. Strings and
// booleans are not numbers.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// IsBlank is true for nil and whitespace-only strings.
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// NonBlankString returns the trimmed string when v is a non-blank string.
func NonBlankString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Get is Lookup that treats an explicit null as absent.
func Get(o Object, key string) (any, bool) {
	v, ok := o.Lookup(key)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
