package pool

// JobKind tags a [Job].
type JobKind int

const (
	// JobCheck asks a worker to probe Job.URL.
	JobCheck JobKind = iota

	// JobQuit asks the receiving worker to terminate.
	JobQuit
)

// Job is a unit of work handed from the round owner to exactly one worker.
type Job struct {
	Kind JobKind
	URL  string
}

// Check returns a job probing url.
func Check(url string) Job {
	return Job{Kind: JobCheck, URL: url}
}

// Quit returns a job terminating one worker.
func Quit() Job {
	return Job{Kind: JobQuit}
}

// Queue is a multi-producer, multi-consumer FIFO of jobs.
//
// Queue is backed by a buffered channel. A receive hands one job to one
// consumer and holds no lock afterwards, so a worker never keeps other
// workers from dequeuing while it probes.
type Queue struct {
	jobs chan Job
}

// NewQueue creates a Queue that can hold capacity jobs without blocking
// producers.
func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue{jobs: make(chan Job, capacity)}
}

// Put enqueues a job, blocking only while the buffer is full.
func (q *Queue) Put(job Job) {
	q.jobs <- job
}

// Take dequeues the next job, blocking until one is available.
func (q *Queue) Take() Job {
	return <-q.jobs
}

// Len returns the number of jobs waiting in the queue.
func (q *Queue) Len() int {
	return len(q.jobs)
}
