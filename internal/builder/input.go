package builder

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/ivlev/json2video/internal/schema"
)

// Input is the set of values collected from the host for one item.
type Input struct {
	// AdvancedMode selects template passthrough over structured assembly.
	AdvancedMode bool
	JSONTemplate string

	RecordID       string
	Comment        string
	OutputSettings map[string]any
	Elements       []map[string]any
	Subtitles      map[string]any
	Exports        []schema.ExportConfig
}

// OutputSettings are the movie-level render settings of structured mode.
type OutputSettings struct {
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	Quality    string `mapstructure:"quality"`
	Resolution string `mapstructure:"resolution"`
	Cache      *bool  `mapstructure:"cache"`
}

// DecodeOutputSettings reads loosely typed settings ("1920" and 1920 are
// both accepted).
func DecodeOutputSettings(raw map[string]any) (OutputSettings, error) {
	var out OutputSettings
	if len(raw) == 0 {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(raw); err != nil {
		return out, fmt.Errorf("decode output settings: %w", err)
	}
	return out, nil
}

// DecodeExports converts host-supplied export configs into their typed form.
// A destination's "to" may be a single address or a list.
func DecodeExports(raw any) ([]schema.ExportConfig, error) {
	if raw == nil {
		return nil, nil
	}
	var out []schema.ExportConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       recipientsHook,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode exports: %w", err)
	}
	return out, nil
}

func recipientsHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(schema.Recipients{}) {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return schema.Recipients{s}, nil
	}
	return data, nil
}
