package pool

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jpalmerr/sitecheck/internal/probe"
)

// Prober probes a single URL. [*probe.Prober] is the production implementation.
type Prober interface {
	Probe(ctx context.Context, url string) probe.Result
}

// Pool is a fixed set of workers pulling jobs from a [Queue] and delivering
// one [probe.Result] per Check job to the intake channel.
//
// A Pool serves a single round: [Pool.Start] launches the workers,
// [Pool.Submit] enqueues URLs, [Pool.Results] is read by the round owner and
// [Pool.Shutdown] sends one Quit per worker and joins them all.
type Pool struct {
	size   int
	prober Prober
	logger *slog.Logger

	queue  *Queue
	intake chan probe.Result

	wg     sync.WaitGroup
	active atomic.Int32

	mu       sync.Mutex
	started  bool
	shutdown bool
}

// New creates a pool of size workers sized for capacity Check jobs.
//
// Sizes below 1 are coerced to 1. The queue and intake are buffered so that
// all Check and Quit jobs of a round can be enqueued before any result is
// read.
func New(size, capacity int, prober Prober, logger *slog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if capacity < 0 {
		capacity = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		size:   size,
		prober: prober,
		logger: logger,
		queue:  NewQueue(capacity + size),
		intake: make(chan probe.Result, capacity),
	}
}

// Size returns the number of workers the pool runs.
func (p *Pool) Size() int {
	return p.size
}

// Active returns the number of worker goroutines currently alive.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Results returns the intake channel workers deliver results to.
func (p *Pool) Results() <-chan probe.Result {
	return p.intake
}

// Start launches the workers. Start is idempotent.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.shutdown {
		return
	}
	p.started = true

	if ctx == nil {
		ctx = context.Background()
	}

	for id := 1; id <= p.size; id++ {
		p.wg.Add(1)
		p.active.Add(1)
		go p.work(ctx, id)
	}
}

// Submit enqueues a Check job for url.
func (p *Pool) Submit(url string) {
	p.queue.Put(Check(url))
}

// Shutdown sends one Quit job per worker and blocks until every worker has
// terminated. Jobs queued before Shutdown are still processed first.
// Shutdown is idempotent.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.shutdown = true
	started := p.started
	p.mu.Unlock()

	if !started {
		return
	}
	for i := 0; i < p.size; i++ {
		p.queue.Put(Quit())
	}
	p.wg.Wait()
}

// work is the worker loop: dequeue, probe, deliver, until Quit.
func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()
	defer p.active.Add(-1)

	for {
		job := p.queue.Take()
		if job.Kind == JobQuit {
			return
		}
		p.intake <- p.safeProbe(ctx, id, job.URL)
	}
}

// safeProbe calls the prober with panic recovery. A panicking probe is
// reported as a failed result carrying a correlation ID, and the full stack
// trace is logged under that ID.
func (p *Pool) safeProbe(ctx context.Context, id int, url string) (result probe.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			p.logger.Error("probe panic",
				"correlation_id", correlationID,
				"worker", id,
				"url", url,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			result = probe.Result{
				URL:        url,
				Err:        fmt.Sprintf("probe panic (correlation_id: %s)", correlationID),
				Attempts:   1,
				Elapsed:    time.Since(start),
				ObservedAt: time.Now(),
			}
		}
	}()
	return p.prober.Probe(ctx, url)
}
