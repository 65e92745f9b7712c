package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jpalmerr/sitecheck/internal/aggregate"
	"github.com/jpalmerr/sitecheck/internal/metrics"
	"github.com/jpalmerr/sitecheck/internal/pool"
	"github.com/jpalmerr/sitecheck/internal/probe"
	"github.com/jpalmerr/sitecheck/internal/shutdown"
)

// defaultTick is the sleep increment between stop flag checks in periodic mode.
const defaultTick = time.Second

// Config is the resolved, read-only configuration of a [Scheduler].
type Config struct {
	// Workers is the number of concurrent probes per round. Coerced to >= 1.
	Workers int

	// Timeout bounds every single attempt. Zero disables the bound.
	Timeout time.Duration

	// Retries is the number of additional attempts after a transport failure.
	Retries int

	// Period is the pause between rounds. Zero runs exactly one round.
	Period time.Duration

	// RetryDelay is the fixed pause between two attempts against one URL.
	RetryDelay time.Duration

	// UserAgent is sent with every attempt when non-empty.
	UserAgent string
}

// Normalize coerces out-of-range values: fewer than one worker becomes one,
// negative retries and delays become zero.
func (c Config) Normalize() Config {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.Timeout < 0 {
		c.Timeout = 0
	}
	if c.Period < 0 {
		c.Period = 0
	}
	return c
}

// Round is the outcome of one full pass over the URL list.
type Round struct {
	// ID uniquely identifies the round across runs.
	ID string

	// Number is the 1-based sequence number of the round within this Scheduler.
	Number int

	StartedAt time.Time
	Duration  time.Duration

	// Results holds one result per submitted URL, in arrival order.
	Results []probe.Result

	Summary aggregate.Summary
}

// Scheduler runs rounds of probes on a fresh worker pool each time and
// optionally repeats them on a fixed period.
type Scheduler struct {
	cfg     Config
	client  *probe.Client
	prober  pool.Prober
	logger  *slog.Logger
	metrics *metrics.Metrics
	tick    time.Duration
	rounds  atomic.Int64
}

// Option configures a [Scheduler].
type Option func(*Scheduler)

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records attempts, results and rounds into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithProber replaces the HTTP prober, mainly for tests.
func WithProber(p pool.Prober) Option {
	return func(s *Scheduler) {
		s.prober = p
	}
}

// WithTick sets the sleep increment used between rounds. Defaults to 1s.
func WithTick(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

// New creates a Scheduler for cfg. cfg is normalized first.
func New(cfg Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:    cfg.Normalize(),
		logger: slog.Default(),
		tick:   defaultTick,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.prober == nil {
		s.client = probe.NewClient(s.cfg.Timeout, s.cfg.UserAgent)
		s.prober = probe.NewProber(s.client, s.cfg.Retries,
			probe.WithRetryDelay(s.cfg.RetryDelay),
			probe.WithAttemptHook(s.observeAttempt),
		)
	}
	return s
}

// Config returns the normalized configuration.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Close releases idle connections held by the HTTP client.
func (s *Scheduler) Close() {
	s.client.Close()
}

// RunRound probes every URL once and returns when all results are in and
// every worker has terminated.
//
// One Check job is enqueued per URL in input order; results are collected
// by count, not identity, so duplicates each get their own result. An empty
// list yields an empty round.
func (s *Scheduler) RunRound(ctx context.Context, urls []string) Round {
	round := Round{
		ID:        uuid.NewString(),
		Number:    int(s.rounds.Add(1)),
		StartedAt: time.Now(),
	}

	p := pool.New(s.cfg.Workers, len(urls), s.prober, s.logger)
	p.Start(ctx)
	for _, u := range urls {
		p.Submit(u)
	}
	round.Results = aggregate.Collect(p.Results(), len(urls))
	p.Shutdown()

	round.Duration = time.Since(round.StartedAt)
	round.Summary = aggregate.Summarize(round.Results)

	for _, r := range round.Results {
		s.metrics.ObserveResult(r)
		s.logResult(round, r)
	}
	s.metrics.ObserveRound(round.Summary, round.Duration)

	s.logger.Info("round completed",
		"round", round.Number,
		"round_id", round.ID,
		"workers", s.cfg.Workers,
		"total", round.Summary.Total,
		"success", round.Summary.SuccessCount,
		"uptime_percent", round.Summary.UptimePercent,
		"avg_success_ms", round.Summary.AverageSuccessMillis,
		"duration_ms", round.Duration.Milliseconds(),
	)
	return round
}

// Loop runs rounds and hands each one to present.
//
// With a zero Period exactly one round runs. Otherwise Loop repeats while
// stop is clear: run a round, present it, then sleep up to Period in tick
// increments, checking stop after each increment. Once stop is raised no
// further round starts and Loop returns within one tick. A cancelled ctx
// ends the loop the same way. Loop returns the number of rounds run.
func (s *Scheduler) Loop(ctx context.Context, urls []string, stop *shutdown.Flag, present func(Round)) int {
	if present == nil {
		present = func(Round) {}
	}
	if s.cfg.Period <= 0 {
		present(s.RunRound(ctx, urls))
		return 1
	}
	if stop == nil {
		stop = shutdown.NewFlag()
	}

	rounds := 0
	for !stop.Stopped() && ctx.Err() == nil {
		present(s.RunRound(ctx, urls))
		rounds++

		if !s.sleep(ctx, stop) {
			break
		}
	}

	s.logger.Info("periodic run stopped", "rounds", rounds)
	return rounds
}

// sleep waits up to Period in tick increments. It returns false as soon as
// stop is observed raised or ctx is done.
func (s *Scheduler) sleep(ctx context.Context, stop *shutdown.Flag) bool {
	increments := int((s.cfg.Period + s.tick - 1) / s.tick)

	timer := time.NewTimer(s.tick)
	defer timer.Stop()

	for i := 0; i < increments; i++ {
		if stop.Stopped() {
			return false
		}
		if i > 0 {
			timer.Reset(s.tick)
		}
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
	}
	return !stop.Stopped()
}

func (s *Scheduler) observeAttempt(url string, attempt int, resp probe.Response) {
	s.metrics.ObserveAttempt(resp)
	if resp.Error != nil {
		s.logger.Debug("attempt failed",
			"url", url,
			"attempt", attempt,
			"error", resp.Error.Error(),
		)
	}
}

// logResult logs one result, at DEBUG for healthy targets to reduce noise.
func (s *Scheduler) logResult(round Round, r probe.Result) {
	attrs := []any{
		"round", round.Number,
		"url", r.URL,
		"status_code", r.StatusCode,
		"attempts", r.Attempts,
		"elapsed_ms", r.Elapsed.Milliseconds(),
	}
	switch {
	case r.Failed():
		s.logger.Warn("probe failed", append(attrs, "error", r.Err)...)
	case !aggregate.Healthy(r):
		s.logger.Warn("probe returned error status", attrs...)
	default:
		s.logger.Debug("probe completed", attrs...)
	}
}
