package main

import (
	"github.com/ivlev/json2video/internal/batch"
	"github.com/ivlev/json2video/internal/orchestrator"
	"github.com/ivlev/json2video/internal/schema"
)

type report struct {
	Item        int                 `json:"item,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	CanProceed  bool                `json:"canProceed"`
	Recoverable bool                `json:"recoverable"`
	Errors      []schema.Issue      `json:"errors"`
	Warnings    []schema.Issue      `json:"warnings"`
	Triage      orchestrator.Triage `json:"triage"`
	Request     schema.Document     `json:"request,omitempty"`
	Error       string              `json:"error,omitempty"`
}

func outcomeReport(out orchestrator.Outcome) report {
	return report{
		Summary:     out.Summary(),
		CanProceed:  out.CanProceed,
		Recoverable: orchestrator.IsRecoverable(out.Result),
		Errors:      out.Errors,
		Warnings:    out.Warnings,
		Triage:      orchestrator.Classify(out.Errors),
	}
}

func itemReport(it batch.Item) report {
	if it.Err != nil {
		return report{
			Item:     it.Index + 1,
			Errors:   []schema.Issue{},
			Warnings: []schema.Issue{},
			Triage:   orchestrator.Classify(nil),
			Error:    it.Err.Error(),
		}
	}
	r := outcomeReport(it.Outcome)
	r.Item = it.Index + 1
	r.Request = it.Build.Request
	return r
}
