package orchestrator

import (
	"github.com/ivlev/json2video/internal/schema"
	"github.com/ivlev/json2video/internal/validator"
)

// Triage splits errors into those the caller can fix by supplying or
// retyping input and everything else. Nothing is dropped.
type Triage struct {
	Fixable  []schema.Issue `json:"fixable"`
	Critical []schema.Issue `json:"critical"`
}

func Classify(errs []schema.Issue) Triage {
	t := Triage{Fixable: []schema.Issue{}, Critical: []schema.Issue{}}
	for _, is := range errs {
		if is.Kind.Fixable() {
			t.Fixable = append(t.Fixable, is)
		} else {
			t.Critical = append(t.Critical, is)
		}
	}
	return t
}

// IsRecoverable reports whether res describes input a caller can repair.
// Any warning makes it unrecoverable; so does any shape error. It is
// recoverable when clean or when every error is a business rule.
func IsRecoverable(res validator.Result) bool {
	if len(res.Warnings) > 0 {
		return false
	}
	if len(res.Errors) == 0 {
		return true
	}
	for _, is := range res.Errors {
		if is.Kind == schema.KindStructural {
			return false
		}
	}
	for _, is := range res.Errors {
		if is.Kind != schema.KindBusinessRule {
			return false
		}
	}
	return true
}
