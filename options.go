package sitecheck

import (
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// checkerConfig holds mutable state during Checker construction.
type checkerConfig struct {
	Config
	logger         *slog.Logger
	roundCallbacks []func(Round)
	registry       *prometheus.Registry
	tick           time.Duration
}

// Option is a function that configures a [Checker] during construction.
//
// Options return an error if validation fails.
type Option func(*checkerConfig) error

// WithWorkers sets the number of concurrent probes per round.
//
// Values below 1 are coerced to 1. Defaults to 50.
func WithWorkers(n int) Option {
	return func(cfg *checkerConfig) error {
		if n < 1 {
			n = 1
		}
		cfg.Workers = n
		return nil
	}
}

// WithTimeout bounds every single HTTP attempt: connect, TLS handshake,
// response headers and the attempt as a whole. Defaults to 5 seconds.
//
// Returns an error if the duration is negative. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(cfg *checkerConfig) error {
		if d < 0 {
			return errors.New("timeout cannot be negative")
		}
		cfg.Timeout = d
		return nil
	}
}

// WithRetries sets how many additional attempts follow a transport failure.
// HTTP error responses are never retried. Defaults to 1.
//
// Returns an error if n is negative.
func WithRetries(n int) Option {
	return func(cfg *checkerConfig) error {
		if n < 0 {
			return errors.New("retries cannot be negative")
		}
		cfg.Retries = n
		return nil
	}
}

// WithPeriod makes [Checker.Run] repeat rounds, pausing d between them.
// Zero (the default) runs a single round.
//
// Returns an error if the duration is negative.
func WithPeriod(d time.Duration) Option {
	return func(cfg *checkerConfig) error {
		if d < 0 {
			return errors.New("period cannot be negative")
		}
		cfg.Period = d
		return nil
	}
}

// WithRetryDelay sets the fixed pause between attempts against one URL.
// Defaults to 150ms.
//
// Returns an error if the duration is negative.
func WithRetryDelay(d time.Duration) Option {
	return func(cfg *checkerConfig) error {
		if d < 0 {
			return errors.New("retry delay cannot be negative")
		}
		cfg.RetryDelay = d
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
// An empty value sends Go's default agent.
func WithUserAgent(ua string) Option {
	return func(cfg *checkerConfig) error {
		cfg.UserAgent = ua
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default]
// is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *checkerConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithRoundCallback registers a function called after every completed round.
//
// Callbacks run synchronously on the goroutine that ran the round, in
// registration order, before the next round starts. Panics within callbacks
// are recovered and logged.
//
// Nil callbacks are silently ignored.
func WithRoundCallback(cb func(Round)) Option {
	return func(cfg *checkerConfig) error {
		if cb == nil {
			return nil
		}
		cfg.roundCallbacks = append(cfg.roundCallbacks, cb)
		return nil
	}
}

// WithStatusServer makes [Checker.Run] serve the status API on addr while it
// runs: the latest round at /api/round, a live stream at /api/sse, metrics
// at /metrics.
//
// Returns an error if addr is empty.
func WithStatusServer(addr string) Option {
	return func(cfg *checkerConfig) error {
		if addr == "" {
			return errors.New("status server address cannot be empty")
		}
		cfg.StatusAddr = addr
		return nil
	}
}

// WithMetricsRegistry records probe and round metrics into reg. The status
// server exposes the same registry. A registry can back only one Checker.
//
// Returns an error if reg is nil.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(cfg *checkerConfig) error {
		if reg == nil {
			return errors.New("metrics registry cannot be nil")
		}
		cfg.registry = reg
		return nil
	}
}

// withTick shortens the sleep increment of periodic mode for tests.
func withTick(d time.Duration) Option {
	return func(cfg *checkerConfig) error {
		cfg.tick = d
		return nil
	}
}
