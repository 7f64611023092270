package validator

import (
	"fmt"

	"github.com/ivlev/json2video/internal/schema"
)

// Result is the outcome of one validation call.
type Result struct {
	IsValid  bool           `json:"isValid"`
	Errors   []schema.Issue `json:"errors"`
	Warnings []schema.Issue `json:"warnings"`
}

func (r Result) ErrorMessages() []string {
	return schema.Messages(r.Errors)
}

func (r Result) WarningMessages() []string {
	return schema.Messages(r.Warnings)
}

// report accumulates issues while rules run.
type report struct {
	errors   []schema.Issue
	warnings []schema.Issue
}

func (r *report) fail(kind schema.Kind, path, format string, args ...any) {
	r.errors = append(r.errors, schema.Newf(kind, path, format, args...))
}

func (r *report) warn(path, format string, args ...any) {
	r.warnings = append(r.warnings, schema.Newf(schema.KindAdvisory, path, format, args...))
}

// add files issues by kind: advisory issues become warnings.
func (r *report) add(issues ...schema.Issue) {
	for _, is := range issues {
		if is.Kind == schema.KindAdvisory {
			r.warnings = append(r.warnings, is)
		} else {
			r.errors = append(r.errors, is)
		}
	}
}

func (r *report) merge(other Result) {
	r.errors = append(r.errors, other.Errors...)
	r.warnings = append(r.warnings, other.Warnings...)
}

func (r *report) result() Result {
	errs := r.errors
	if errs == nil {
		errs = []schema.Issue{}
	}
	warns := r.warnings
	if warns == nil {
		warns = []schema.Issue{}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs, Warnings: warns}
}

// scoped prefixes messages and paths of issues raised for one location.
type scoped struct {
	*report
	prefix string
	path   string
}

func (s scoped) fail(kind schema.Kind, field, format string, args ...any) {
	s.report.fail(kind, join(s.path, field), s.prefix+format, args...)
}

func (s scoped) warn(field, format string, args ...any) {
	s.report.warn(join(s.path, field), s.prefix+format, args...)
}

func join(path, field string) string {
	switch {
	case path == "":
		return field
	case field == "":
		return path
	default:
		return path + "." + field
	}
}

func indexed(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
