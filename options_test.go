package sitecheck

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	cfg := c.Config()
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.Retries != DefaultRetries {
		t.Errorf("Retries = %d, want %d", cfg.Retries, DefaultRetries)
	}
	if cfg.Period != 0 {
		t.Errorf("Period = %v, want 0", cfg.Period)
	}
	if cfg.RetryDelay != 150*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 150ms", cfg.RetryDelay)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want %q", cfg.UserAgent, DefaultUserAgent)
	}
}

func TestNew_AllOptions(t *testing.T) {
	c, err := New(
		WithWorkers(8),
		WithTimeout(2*time.Second),
		WithRetries(3),
		WithPeriod(time.Minute),
		WithRetryDelay(10*time.Millisecond),
		WithUserAgent("probe/2"),
		WithStatusServer("127.0.0.1:0"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	want := Config{
		Workers:    8,
		Timeout:    2 * time.Second,
		Retries:    3,
		Period:     time.Minute,
		RetryDelay: 10 * time.Millisecond,
		UserAgent:  "probe/2",
		StatusAddr: "127.0.0.1:0",
	}
	if got := c.Config(); got != want {
		t.Errorf("Config() = %+v, want %+v", got, want)
	}
}

func TestWithWorkers_Coerced(t *testing.T) {
	for _, n := range []int{0, -3} {
		c, err := New(WithWorkers(n))
		if err != nil {
			t.Fatalf("New(WithWorkers(%d)) error = %v", n, err)
		}
		if got := c.Config().Workers; got != 1 {
			t.Errorf("WithWorkers(%d): Workers = %d, want 1", n, got)
		}
	}
}

func TestOptions_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		opt         Option
		wantErrLike string
	}{
		{"negative timeout", WithTimeout(-time.Second), "timeout"},
		{"negative retries", WithRetries(-1), "retries"},
		{"negative period", WithPeriod(-time.Second), "period"},
		{"negative retry delay", WithRetryDelay(-time.Millisecond), "retry delay"},
		{"nil logger", WithLogger(nil), "logger"},
		{"empty status address", WithStatusServer(""), "address"},
		{"nil registry", WithMetricsRegistry(nil), "registry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			if err == nil {
				t.Fatal("New() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrLike) {
				t.Errorf("error = %q, want containing %q", err.Error(), tt.wantErrLike)
			}
		})
	}
}

func TestWithRoundCallback_NilIgnored(t *testing.T) {
	c, err := New(WithRoundCallback(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(c.callbacks) != 0 {
		t.Errorf("len(callbacks) = %d, want 0", len(c.callbacks))
	}
}

func TestWithLogger_Used(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	c, err := New(WithLogger(logger), WithWorkers(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_ = c.RunRound(t.Context(), nil)

	if !strings.Contains(buf.String(), "round completed") {
		t.Errorf("custom logger not used, got: %s", buf.String())
	}
}

func TestWithMetricsRegistry_RecordsRounds(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(WithMetricsRegistry(reg), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_ = c.RunRound(t.Context(), nil)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "sitecheck_rounds_total" {
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
				t.Errorf("rounds_total = %v, want 1", got)
			}
			return
		}
	}
	t.Error("sitecheck_rounds_total not registered")
}
