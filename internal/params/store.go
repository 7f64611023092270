// Package params provides per-item access to host parameters with mandatory
// fallback semantics: reading a parameter never fails.
package params

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

var ErrMissing = errors.New("parameter not set")

// Store returns the value of a named parameter for one item. Value must
// return fallback when the parameter is absent and must never panic.
type Store interface {
	Value(name string, item int, fallback any) any
	Len() int
}

// MapStore holds parameters for a list of items plus shared defaults.
type MapStore struct {
	Items    []map[string]any `yaml:"items" mapstructure:"items"`
	Defaults map[string]any   `yaml:"defaults" mapstructure:"defaults"`
}

func NewMapStore(items ...map[string]any) *MapStore {
	return &MapStore{Items: items}
}

func (s *MapStore) Len() int {
	return len(s.Items)
}

// Lookup returns the item's own value, then the shared default.
func (s *MapStore) Lookup(name string, item int) (any, error) {
	if item >= 0 && item < len(s.Items) {
		if v, ok := s.Items[item][name]; ok && v != nil {
			return v, nil
		}
	}
	if v, ok := s.Defaults[name]; ok && v != nil {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s (item %d)", ErrMissing, name, item)
}

func (s *MapStore) Value(name string, item int, fallback any) any {
	v, err := s.Lookup(name, item)
	if err != nil {
		return fallback
	}
	return v
}

// Parse reads a parameter set from YAML or JSON. Three layouts are
// accepted: a single mapping (one item), a sequence of mappings, or a
// mapping with "items" and optional "defaults".
func Parse(data []byte) (*MapStore, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse parameters: %w", err)
	}

	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("parse parameters: %w: empty document", ErrMissing)
	case []any:
		items, err := decodeItems(v)
		if err != nil {
			return nil, err
		}
		return &MapStore{Items: items}, nil
	case map[string]any:
		if _, ok := v["items"]; !ok {
			return &MapStore{Items: []map[string]any{v}}, nil
		}
		var store MapStore
		if err := mapstructure.Decode(v, &store); err != nil {
			return nil, fmt.Errorf("parse parameters: %w", err)
		}
		return &store, nil
	default:
		return nil, fmt.Errorf("parse parameters: unexpected top-level %T", raw)
	}
}

func decodeItems(list []any) ([]map[string]any, error) {
	items := make([]map[string]any, 0, len(list))
	for i, it := range list {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parse parameters: item %d is %T, want a mapping", i+1, it)
		}
		items = append(items, m)
	}
	return items, nil
}

// Load reads a parameter file.
func Load(path string) (*MapStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
