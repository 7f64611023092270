package orchestrator

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/ivlev/json2video/internal/validator"
)

// Options tune one validation call. Nil switches take their default.
type Options struct {
	Level            validator.Level
	StrictMode       *bool
	IncludeWarnings  *bool
	ValidateElements *bool
}

// DefaultOptions validates completely, strictly, with warnings and element
// rules enabled.
func DefaultOptions() Options {
	return Options{
		Level:            validator.LevelComplete,
		StrictMode:       Bool(true),
		IncludeWarnings:  Bool(true),
		ValidateElements: Bool(true),
	}
}

func Bool(b bool) *bool {
	return &b
}

// Resolve fills unset options from DefaultOptions.
func (o Options) Resolve() (Options, error) {
	if err := mergo.Merge(&o, DefaultOptions(), mergo.WithoutDereference); err != nil {
		return DefaultOptions(), fmt.Errorf("resolve validation options: %w", err)
	}
	return o, nil
}

func (o Options) strict() bool           { return o.StrictMode == nil || *o.StrictMode }
func (o Options) includeWarnings() bool  { return o.IncludeWarnings == nil || *o.IncludeWarnings }
func (o Options) validateElements() bool { return o.ValidateElements == nil || *o.ValidateElements }

// effectiveLevel drops to structural when element rules are switched off.
func (o Options) effectiveLevel() validator.Level {
	if !o.validateElements() {
		return validator.LevelStructural
	}
	if o.Level < validator.LevelStructural || o.Level > validator.LevelComplete {
		return validator.LevelComplete
	}
	return o.Level
}
