// Package orchestrator wraps the rule validator with caller options and
// derives proceed, triage and recoverability decisions from its result.
package orchestrator

import (
	"fmt"
	"strings"

	"github.com/ivlev/json2video/internal/builder"
	"github.com/ivlev/json2video/internal/logger"
	"github.com/ivlev/json2video/internal/schema"
	"github.com/ivlev/json2video/internal/validator"
)

// Outcome extends a validation result with the decision to proceed. A
// request may proceed despite errors in non-strict mode, so CanProceed and
// IsValid must not be conflated.
type Outcome struct {
	validator.Result
	CanProceed bool            `json:"canProceed"`
	Level      validator.Level `json:"validationLevel"`
}

// Summary renders a one-line verdict such as
// "PASS - COMPLETE validation - Errors: 0, Warnings: 0".
func (o Outcome) Summary() string {
	verdict := "FAIL"
	if o.IsValid {
		verdict = "PASS"
	}
	return fmt.Sprintf("%s - %s validation - Errors: %d, Warnings: %d",
		verdict, strings.ToUpper(o.Level.String()), len(o.Errors), len(o.Warnings))
}

type Orchestrator struct {
	validator *validator.Validator
	log       logger.Logger
}

type Option func(*Orchestrator)

func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// New wraps v, or a default validator when v is nil.
func New(v *validator.Validator, opts ...Option) *Orchestrator {
	if v == nil {
		v = validator.New()
	}
	o := &Orchestrator{validator: v, log: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks req under opts.
func (o *Orchestrator) Validate(req any, opts Options) Outcome {
	opts = o.resolve(opts)
	level := opts.effectiveLevel()

	res := o.validator.ValidateRequest(req, level)
	return o.finish(res, level, opts)
}

// ValidateBuild validates the request of a build result. Build errors come
// first and make the outcome invalid even when the request itself passes.
func (o *Orchestrator) ValidateBuild(build builder.BuildResult, opts Options) Outcome {
	opts = o.resolve(opts)
	level := opts.effectiveLevel()

	errs := append([]schema.Issue{}, build.Errors...)
	warns := append([]schema.Issue{}, build.Warnings...)
	valid := !build.HasErrors()
	if build.Request != nil {
		res := o.validator.ValidateRequest(build.Request, level)
		valid = valid && res.IsValid
		errs = append(errs, res.Errors...)
		warns = append(warns, res.Warnings...)
	}

	res := validator.Result{
		IsValid:  valid,
		Errors:   errs,
		Warnings: warns,
	}
	return o.finish(res, level, opts)
}

func (o *Orchestrator) resolve(opts Options) Options {
	resolved, err := opts.Resolve()
	if err != nil {
		o.log.Warn("validation options fell back to defaults", "error", err)
	}
	return resolved
}

func (o *Orchestrator) finish(res validator.Result, level validator.Level, opts Options) Outcome {
	if !opts.includeWarnings() {
		res.Warnings = []schema.Issue{}
	}
	out := Outcome{
		Result:     res,
		CanProceed: res.IsValid || !opts.strict(),
		Level:      level,
	}
	o.log.Debug(out.Summary(), "canProceed", out.CanProceed)
	return out
}
