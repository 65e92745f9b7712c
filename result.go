package sitecheck

import (
	"fmt"
	"time"

	"github.com/jpalmerr/sitecheck/internal/aggregate"
	"github.com/jpalmerr/sitecheck/internal/probe"
	"github.com/jpalmerr/sitecheck/internal/scheduler"
)

// Outcome is the result of probing one URL: either Success carrying the
// received HTTP status code, or Failure carrying the last transport error.
//
// An HTTP error status is still a Success; whether it counts as up is
// decided by [WebsiteResult.Healthy].
type Outcome struct {
	failed     bool
	statusCode int
	message    string
}

// Success returns a successful outcome with the received status code.
func Success(statusCode int) Outcome {
	return Outcome{statusCode: statusCode}
}

// Failure returns a failed outcome carrying msg.
func Failure(msg string) Outcome {
	return Outcome{failed: true, message: msg}
}

// IsSuccess reports whether a response was received.
func (o Outcome) IsSuccess() bool {
	return !o.failed
}

// StatusCode returns the received status code, or 0 for a Failure.
func (o Outcome) StatusCode() int {
	return o.statusCode
}

// Message returns the failure message, or "" for a Success.
func (o Outcome) Message() string {
	return o.message
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o.failed {
		return "Failure(" + o.message + ")"
	}
	return fmt.Sprintf("Success(%d)", o.statusCode)
}

// WebsiteResult holds the outcome of probing a single URL once.
type WebsiteResult struct {
	// URL is the probed target exactly as submitted.
	URL string

	// Outcome is Success(code) or Failure(message).
	Outcome Outcome

	// Elapsed is the time from the first attempt to the final outcome,
	// including retry delays.
	Elapsed time.Duration

	// ObservedAt is when the probe concluded.
	ObservedAt time.Time

	// Attempts is the number of HTTP attempts made.
	Attempts int
}

// Healthy reports whether the URL counts as up: a response with a status
// code below 400.
func (r WebsiteResult) Healthy() bool {
	return r.Outcome.IsSuccess() && r.Outcome.StatusCode() < 400
}

// RoundSummary aggregates one round.
type RoundSummary struct {
	Total                int
	SuccessCount         int
	UptimePercent        float64
	AverageSuccessMillis float64
}

// String implements fmt.Stringer.
func (s RoundSummary) String() string {
	return fmt.Sprintf("ok=%d/%d uptime=%.1f%% avg_ms=%.0f",
		s.SuccessCount, s.Total, s.UptimePercent, s.AverageSuccessMillis)
}

// Round is one full pass over the URL list.
type Round struct {
	// ID uniquely identifies the round.
	ID string

	// Number is the 1-based sequence number of the round within a Checker.
	Number int

	StartedAt time.Time
	Duration  time.Duration

	// Results holds one result per submitted URL, in completion order.
	Results []WebsiteResult

	Summary RoundSummary
}

// Summarize computes the summary of a result list. It is pure and does not
// depend on result order; an empty list yields zero uptime.
func Summarize(results []WebsiteResult) RoundSummary {
	internal := make([]probe.Result, len(results))
	for i, r := range results {
		internal[i] = fromPublicResult(r)
	}
	return fromInternalSummary(aggregate.Summarize(internal))
}

// toPublicRound converts an internal round to the public API type.
// Results are copied so callers can retain them.
func toPublicRound(r scheduler.Round) Round {
	results := make([]WebsiteResult, len(r.Results))
	for i, res := range r.Results {
		results[i] = toPublicResult(res)
	}
	return Round{
		ID:        r.ID,
		Number:    r.Number,
		StartedAt: r.StartedAt,
		Duration:  r.Duration,
		Results:   results,
		Summary:   fromInternalSummary(r.Summary),
	}
}

func toPublicResult(r probe.Result) WebsiteResult {
	outcome := Success(r.StatusCode)
	if r.Failed() {
		outcome = Failure(r.Err)
	}
	return WebsiteResult{
		URL:        r.URL,
		Outcome:    outcome,
		Elapsed:    r.Elapsed,
		ObservedAt: r.ObservedAt,
		Attempts:   r.Attempts,
	}
}

func fromPublicResult(r WebsiteResult) probe.Result {
	res := probe.Result{
		URL:        r.URL,
		StatusCode: r.Outcome.StatusCode(),
		Attempts:   r.Attempts,
		Elapsed:    r.Elapsed,
		ObservedAt: r.ObservedAt,
	}
	if !r.Outcome.IsSuccess() {
		res.Err = r.Outcome.Message()
		if res.Err == "" {
			res.Err = "request failed"
		}
	}
	return res
}

func fromInternalSummary(s aggregate.Summary) RoundSummary {
	return RoundSummary{
		Total:                s.Total,
		SuccessCount:         s.SuccessCount,
		UptimePercent:        s.UptimePercent,
		AverageSuccessMillis: s.AverageSuccessMillis,
	}
}
