package params

import (
	"fmt"

	"github.com/ivlev/json2video/internal/builder"
)

// Parameter names read by Collect.
const (
	NameAdvancedMode   = "advancedMode"
	NameJSONTemplate   = "jsonTemplate"
	NameRecordID       = "recordId"
	NameComment        = "comment"
	NameOutputSettings = "outputSettings"
	NameElements       = "elements"
	NameSubtitles      = "subtitles"
	NameExports        = "exports"
)

// ParamError reports a parameter that is present but unusable.
type ParamError struct {
	Name   string
	Item   int
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %s (item %d): %s", e.Name, e.Item, e.Reason)
}

// Collect gathers the builder input for one item.
func Collect(s Store, item int) (builder.Input, error) {
	in := builder.Input{
		AdvancedMode: Bool(s, NameAdvancedMode, item, false),
		RecordID:     String(s, NameRecordID, item, ""),
		Comment:      String(s, NameComment, item, ""),
	}
	if in.AdvancedMode {
		in.JSONTemplate = JSON(s, NameJSONTemplate, item)
		return in, nil
	}

	in.OutputSettings = Map(s, NameOutputSettings, item)
	in.Subtitles = Map(s, NameSubtitles, item)

	elements, err := Maps(s, NameElements, item, "elementValues")
	if err != nil {
		return in, err
	}
	in.Elements = elements

	exports, err := Maps(s, NameExports, item, "exportValues")
	if err != nil {
		return in, err
	}
	if len(exports) > 0 {
		raw := make([]any, len(exports))
		for i, e := range exports {
			raw[i] = e
		}
		in.Exports, err = builder.DecodeExports(raw)
		if err != nil {
			return in, &ParamError{Name: NameExports, Item: item, Reason: err.Error()}
		}
	}
	return in, nil
}
