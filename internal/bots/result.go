package bots

import (
	"fmt"
	"time"
)

// Status classifies a bot run outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
)

// Result is the universal bot return type; the orchestrator composes
// bots through it.
type Result struct {
	Bot       string         `json:"bot"`
	Status    Status         `json:"status"`
	Summary   string         `json:"summary"`
	Report    string         `json:"report,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// OK reports whether the run produced a usable report.
func (r Result) OK() bool {
	return r.Status == StatusSuccess || r.Status == StatusPartial || r.Status == StatusWarning
}

// Failure builds a failed Result with a stub report.
func Failure(bot, msg string) Result {
	return Result{
		Bot:       bot,
		Status:    StatusFailed,
		Summary:   "Failed: " + msg,
		Report:    fmt.Sprintf("## ❌ %s failed\n\n%s", bot, msg),
		Errors:    []string{msg},
		Timestamp: time.Now().UTC(),
	}
}

// errorResult is for precondition problems (missing project wiring,
// bad paths) as opposed to runtime failures.
func errorResult(bot, msg string) Result {
	return Result{
		Bot:       bot,
		Status:    StatusError,
		Summary:   msg,
		Errors:    []string{msg},
		Timestamp: time.Now().UTC(),
	}
}

// shortSummary trims s to at most 200 characters for the one-line
// result summary.
func shortSummary(s string) string {
	const limit = 200
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
