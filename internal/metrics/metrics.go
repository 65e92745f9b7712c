// Package metrics exposes Prometheus collectors for probes and rounds.
package metrics

import (
	"time"

	"github.com/jpalmerr/sitecheck/internal/aggregate"
	"github.com/jpalmerr/sitecheck/internal/probe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sitecheck"

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	AttemptsTotal *prometheus.CounterVec
	ResultsTotal  *prometheus.CounterVec
	ProbeDuration prometheus.Histogram
	RoundsTotal   prometheus.Counter
	RoundUptime   prometheus.Gauge
	RoundDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AttemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_attempts_total",
			Help:      "Total number of HTTP attempts, by outcome.",
		}, []string{"outcome"}), // response, transport_error
		ResultsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_results_total",
			Help:      "Total number of probe results, by outcome.",
		}, []string{"outcome"}), // up, http_error, failure
		ProbeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Duration of whole probes including retries.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		RoundsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Total number of completed rounds.",
		}),
		RoundUptime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "round_uptime_percent",
			Help:      "Uptime percentage of the most recent round.",
		}),
		RoundDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_duration_seconds",
			Help:      "Wall-clock duration of rounds.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveAttempt records one HTTP attempt.
func (m *Metrics) ObserveAttempt(resp probe.Response) {
	if m == nil {
		return
	}
	outcome := "response"
	if resp.Error != nil {
		outcome = "transport_error"
	}
	m.AttemptsTotal.WithLabelValues(outcome).Inc()
}

// ObserveResult records one completed probe.
func (m *Metrics) ObserveResult(r probe.Result) {
	if m == nil {
		return
	}
	m.ResultsTotal.WithLabelValues(resultOutcome(r)).Inc()
	m.ProbeDuration.Observe(r.Elapsed.Seconds())
}

// ObserveRound records one completed round.
func (m *Metrics) ObserveRound(s aggregate.Summary, d time.Duration) {
	if m == nil {
		return
	}
	m.RoundsTotal.Inc()
	m.RoundUptime.Set(s.UptimePercent)
	m.RoundDuration.Observe(d.Seconds())
}

func resultOutcome(r probe.Result) string {
	switch {
	case r.Failed():
		return "failure"
	case aggregate.Healthy(r):
		return "up"
	default:
		return "http_error"
	}
}
