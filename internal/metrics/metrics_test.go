package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/jpalmerr/sitecheck/internal/aggregate"
	"github.com/jpalmerr/sitecheck/internal/probe"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// find returns the metric family called name from reg.
func find(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric %q not found", name)
	return nil
}

// counterByLabel returns the counter value of the series whose outcome label is value.
func counterByLabel(mf *dto.MetricFamily, value string) float64 {
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "outcome" && lp.GetValue() == value {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestMetrics_ObserveAttempt(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveAttempt(probe.Response{StatusCode: 200})
	m.ObserveAttempt(probe.Response{Error: errors.New("refused")})
	m.ObserveAttempt(probe.Response{Error: errors.New("refused")})

	mf := find(t, reg, "sitecheck_probe_attempts_total")
	if got := counterByLabel(mf, "response"); got != 1 {
		t.Errorf("response attempts = %v, want 1", got)
	}
	if got := counterByLabel(mf, "transport_error"); got != 2 {
		t.Errorf("transport_error attempts = %v, want 2", got)
	}
}

func TestMetrics_ObserveResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveResult(probe.Result{URL: "a", StatusCode: 200, Elapsed: time.Millisecond})
	m.ObserveResult(probe.Result{URL: "b", StatusCode: 503, Elapsed: time.Millisecond})
	m.ObserveResult(probe.Result{URL: "c", Err: "timeout", Elapsed: time.Second})

	mf := find(t, reg, "sitecheck_probe_results_total")
	for outcome, want := range map[string]float64{"up": 1, "http_error": 1, "failure": 1} {
		if got := counterByLabel(mf, outcome); got != want {
			t.Errorf("%s results = %v, want %v", outcome, got, want)
		}
	}

	hist := find(t, reg, "sitecheck_probe_duration_seconds")
	if got := hist.GetMetric()[0].GetHistogram().GetSampleCount(); got != 3 {
		t.Errorf("duration samples = %d, want 3", got)
	}
}

func TestMetrics_ObserveRound(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRound(aggregate.Summary{Total: 4, SuccessCount: 3, UptimePercent: 75}, 2*time.Second)

	if got := find(t, reg, "sitecheck_round_uptime_percent").GetMetric()[0].GetGauge().GetValue(); got != 75 {
		t.Errorf("round uptime = %v, want 75", got)
	}
	if got := find(t, reg, "sitecheck_rounds_total").GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Errorf("rounds = %v, want 1", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	// none of these may panic
	m.ObserveAttempt(probe.Response{})
	m.ObserveResult(probe.Result{})
	m.ObserveRound(aggregate.Summary{}, time.Second)
}
