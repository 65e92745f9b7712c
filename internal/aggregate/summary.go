// Package aggregate collects round results and computes round statistics.
package aggregate

import (
	"time"

	"github.com/jpalmerr/sitecheck/internal/probe"
)

// healthyBelow is the first status code no longer counted as up.
const healthyBelow = 400

// Summary holds the statistics of one round.
type Summary struct {
	Total                int     `json:"total"`
	SuccessCount         int     `json:"success_count"`
	UptimePercent        float64 `json:"uptime_percent"`
	AverageSuccessMillis float64 `json:"average_success_ms"`
}

// Healthy reports whether r counts toward the success count: a response was
// received and its status code is below 400.
func Healthy(r probe.Result) bool {
	return !r.Failed() && r.StatusCode < healthyBelow
}

// Summarize computes the round statistics for results.
//
// The result is independent of the order of results. An empty round has 0%
// uptime and a zero average.
func Summarize(results []probe.Result) Summary {
	s := Summary{Total: len(results)}

	var sum time.Duration
	for _, r := range results {
		if Healthy(r) {
			s.SuccessCount++
			sum += r.Elapsed
		}
	}

	if s.Total > 0 {
		s.UptimePercent = 100 * float64(s.SuccessCount) / float64(s.Total)
	}
	if s.SuccessCount > 0 {
		s.AverageSuccessMillis = float64(sum) / float64(time.Millisecond) / float64(s.SuccessCount)
	}
	return s
}

// Collect reads from intake until n results arrived or intake is closed,
// and returns them in arrival order.
func Collect(intake <-chan probe.Result, n int) []probe.Result {
	if n < 0 {
		n = 0
	}
	results := make([]probe.Result, 0, n)
	for len(results) < n {
		r, ok := <-intake
		if !ok {
			break
		}
		results = append(results, r)
	}
	return results
}
