package probe

import (
	"context"
	"time"
)

// DefaultRetryDelay is the fixed pause between two attempts against the same URL.
const DefaultRetryDelay = 150 * time.Millisecond

// Result is the outcome of probing a single URL, including retries.
//
// A Result is a success when a response was received (Err is empty), whatever
// its status code. Classifying 4xx/5xx codes as unhealthy is left to the
// aggregation layer.
type Result struct {
	// URL is the probed target exactly as submitted.
	URL string

	// StatusCode is the status code of the received response.
	// Zero when every attempt failed at the transport level.
	StatusCode int

	// Err holds the message of the last failed attempt when no response
	// was received. Empty on success.
	Err string

	// Attempts is the number of attempts made, at least 1.
	Attempts int

	// Elapsed covers the whole probe, retries and delays included.
	Elapsed time.Duration

	// ObservedAt is taken when the probe concludes.
	ObservedAt time.Time
}

// Failed reports whether no response was received.
func (r Result) Failed() bool {
	return r.Err != ""
}

// Getter performs a single attempt. [*Client] is the production implementation.
type Getter interface {
	Get(ctx context.Context, url string) Response
}

// AttemptFunc is called after every attempt with its 1-based index and outcome.
type AttemptFunc func(url string, attempt int, resp Response)

// Prober runs bounded, strictly sequential attempts against one URL.
//
// Prober holds no mutable state and is safe for concurrent use by many
// workers.
type Prober struct {
	getter     Getter
	retries    int
	retryDelay time.Duration
	onAttempt  AttemptFunc
}

// Option configures a [Prober].
type Option func(*Prober)

// WithRetryDelay overrides [DefaultRetryDelay]. Negative values are ignored.
func WithRetryDelay(d time.Duration) Option {
	return func(p *Prober) {
		if d >= 0 {
			p.retryDelay = d
		}
	}
}

// WithAttemptHook registers fn to observe every attempt.
func WithAttemptHook(fn AttemptFunc) Option {
	return func(p *Prober) {
		p.onAttempt = fn
	}
}

// NewProber creates a Prober making up to retries+1 attempts per URL.
// Negative retries are treated as zero.
func NewProber(getter Getter, retries int, opts ...Option) *Prober {
	if retries < 0 {
		retries = 0
	}
	p := &Prober{
		getter:     getter,
		retries:    retries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe checks url, retrying transport failures.
//
// The first attempt that receives a response ends the probe. After a
// transport failure Probe waits the retry delay and tries again while
// attempts remain; there is no wait after the last attempt.
func (p *Prober) Probe(ctx context.Context, url string) Result {
	start := time.Now()

	var lastErr string
	attempts := p.retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		resp := p.getter.Get(ctx, url)
		if p.onAttempt != nil {
			p.onAttempt(url, attempt, resp)
		}

		if resp.Error == nil {
			return Result{
				URL:        url,
				StatusCode: resp.StatusCode,
				Attempts:   attempt,
				Elapsed:    time.Since(start),
				ObservedAt: time.Now(),
			}
		}

		lastErr = resp.Error.Error()
		if lastErr == "" {
			lastErr = "request failed"
		}
		if attempt < attempts && p.retryDelay > 0 {
			time.Sleep(p.retryDelay)
		}
	}

	return Result{
		URL:        url,
		Err:        lastErr,
		Attempts:   attempts,
		Elapsed:    time.Since(start),
		ObservedAt: time.Now(),
	}
}
