package sitecheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jpalmerr/sitecheck/internal/metrics"
	"github.com/jpalmerr/sitecheck/internal/probe"
	"github.com/jpalmerr/sitecheck/internal/scheduler"
	"github.com/jpalmerr/sitecheck/internal/server"
	"github.com/jpalmerr/sitecheck/internal/shutdown"
	"github.com/jpalmerr/sitecheck/internal/store"
)

// Defaults applied by [New] and by the CLI.
const (
	DefaultWorkers    = 50
	DefaultTimeout    = 5 * time.Second
	DefaultRetries    = 1
	DefaultRetryDelay = probe.DefaultRetryDelay
	DefaultUserAgent  = "sitecheck/1.0"
)

// DefaultTargets returns the URL list checked when none is given.
func DefaultTargets() []string {
	return []string{
		"https://www.google.com",
		"https://go.dev",
		"https://httpbin.org/status/200",
		"https://httpbin.org/status/404",
		"https://example.com",
	}
}

// Config is the resolved configuration of a [Checker].
type Config struct {
	Workers    int
	Timeout    time.Duration
	Retries    int
	Period     time.Duration
	RetryDelay time.Duration
	UserAgent  string

	// StatusAddr is the status server address, empty when disabled.
	StatusAddr string
}

// StopFlag is the one-way stop signal shared between [Checker.Run] and
// whatever decides to stop it. The zero value is ready to use.
type StopFlag = shutdown.Flag

// NewStopFlag returns a cleared [StopFlag].
func NewStopFlag() *StopFlag {
	return shutdown.NewFlag()
}

// WatchInput blocks until one line (or EOF) is read from r, then raises stop.
// Run it in its own goroutine.
func WatchInput(r io.Reader, stop *StopFlag) {
	shutdown.WatchLine(r, stop)
}

// Checker probes URL lists in rounds.
//
// A Checker is created with [New] and is safe for sequential use; rounds
// never overlap within one Checker. Call [Checker.Close] when done to
// release idle connections.
type Checker struct {
	cfg       Config
	scheduler *scheduler.Scheduler
	registry  *prometheus.Registry
	store     *store.MemoryStore
	callbacks []func(Round)
	logger    *slog.Logger
}

// New creates a [Checker] with the given options.
//
// Defaults: 50 workers, 5s timeout, 1 retry, 150ms retry delay, single
// round. Returns an error if any option is invalid.
//
// Example:
//
//	checker, err := sitecheck.New(
//	    sitecheck.WithWorkers(10),
//	    sitecheck.WithTimeout(2*time.Second),
//	    sitecheck.WithRetries(2),
//	)
func New(opts ...Option) (*Checker, error) {
	cfg := &checkerConfig{
		Config: Config{
			Workers:    DefaultWorkers,
			Timeout:    DefaultTimeout,
			Retries:    DefaultRetries,
			RetryDelay: DefaultRetryDelay,
			UserAgent:  DefaultUserAgent,
		},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	// the status server always exposes metrics, so give it a registry
	registry := cfg.registry
	if registry == nil && cfg.StatusAddr != "" {
		registry = prometheus.NewRegistry()
	}

	schedOpts := []scheduler.Option{scheduler.WithLogger(logger)}
	if registry != nil {
		schedOpts = append(schedOpts, scheduler.WithMetrics(metrics.New(registry)))
	}
	if cfg.tick > 0 {
		schedOpts = append(schedOpts, scheduler.WithTick(cfg.tick))
	}

	sched := scheduler.New(scheduler.Config{
		Workers:    cfg.Workers,
		Timeout:    cfg.Timeout,
		Retries:    cfg.Retries,
		Period:     cfg.Period,
		RetryDelay: cfg.RetryDelay,
		UserAgent:  cfg.UserAgent,
	}, schedOpts...)

	return &Checker{
		cfg:       cfg.Config,
		scheduler: sched,
		registry:  registry,
		store:     store.NewMemoryStore(),
		callbacks: cfg.roundCallbacks,
		logger:    logger,
	}, nil
}

// Config returns the resolved configuration.
func (c *Checker) Config() Config {
	return c.cfg
}

// Close releases idle HTTP connections.
func (c *Checker) Close() {
	c.scheduler.Close()
}

// RunRound probes every URL once and returns the round.
//
// Every URL yields exactly one result, duplicates included; an empty list
// yields an empty round with zero uptime. All workers have terminated when
// RunRound returns. Registered round callbacks run before it returns.
func (c *Checker) RunRound(ctx context.Context, urls []string) Round {
	return c.publish(c.scheduler.RunRound(ctx, urls))
}

// Run runs rounds until done and blocks meanwhile.
//
// Without a period Run performs exactly one round. With a period it repeats
// while stop is clear and ctx is live, sleeping between rounds in one-second
// increments so a raised flag is noticed promptly; a round already running
// always completes. A nil stop leaves ctx as the only way to end the loop.
//
// When a status server is configured it serves for the duration of Run.
// Returns an error only if the status server cannot start.
func (c *Checker) Run(ctx context.Context, urls []string, stop *StopFlag) error {
	if c.cfg.StatusAddr != "" {
		serverCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		srv := server.NewServer(c.store, c.cfg.StatusAddr, c.registry, c.logger)
		if err := srv.Start(serverCtx); err != nil {
			return fmt.Errorf("failed to start status server: %w", err)
		}
	}

	c.logger.Info("sitecheck starting",
		"targets", len(urls),
		"workers", c.cfg.Workers,
		"timeout", c.cfg.Timeout.String(),
		"retries", c.cfg.Retries,
		"period", c.cfg.Period.String(),
	)

	rounds := c.scheduler.Loop(ctx, urls, stop, func(r scheduler.Round) {
		c.publish(r)
	})

	c.logger.Info("sitecheck stopped", "rounds", rounds)
	return nil
}

// publish stores the round for the status API and runs the callbacks.
func (c *Checker) publish(r scheduler.Round) Round {
	c.store.Update(store.NewSnapshot(r))

	round := toPublicRound(r)
	for _, cb := range c.callbacks {
		invokeCallbackSafe(cb, round, c.logger)
	}
	return round
}

// invokeCallbackSafe calls a round callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(Round), round Round, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("round callback panicked",
				"panic", r,
				"round", round.Number,
			)
		}
	}()
	cb(round)
}
