// Package shutdown provides the stop flag that gates periodic rounds and the
// controller that raises it on operator input.
package shutdown

import (
	"bufio"
	"io"
	"sync"
	"sync/atomic"
)

// Flag is a one-way boolean: it starts clear and can only be raised.
//
// The scheduler polls [Flag.Stopped] between rounds and between sleep
// increments. Raising is idempotent, so a signal handler and the input
// controller may both hold the same Flag. The zero value is a clear Flag.
type Flag struct {
	stopped atomic.Bool
	init    sync.Once
	done    chan struct{}
}

// NewFlag returns a clear Flag.
func NewFlag() *Flag {
	return &Flag{}
}

// Set raises the flag. It reports whether this call was the one that
// raised it.
func (f *Flag) Set() bool {
	raised := f.stopped.CompareAndSwap(false, true)
	if raised {
		close(f.doneChan())
	}
	return raised
}

// Stopped reports whether the flag has been raised.
func (f *Flag) Stopped() bool {
	return f.stopped.Load()
}

// Done returns a channel closed when the flag is raised.
func (f *Flag) Done() <-chan struct{} {
	return f.doneChan()
}

func (f *Flag) doneChan() chan struct{} {
	f.init.Do(func() { f.done = make(chan struct{}) })
	return f.done
}

// WatchLine blocks until one line (or EOF) can be read from r, then raises
// stop. It is meant to run in its own goroutine and never touches anything
// but the flag.
//
// A closed input counts as the operator's signal.
func WatchLine(r io.Reader, stop *Flag) {
	_, _ = bufio.NewReader(r).ReadString('\n')
	stop.Set()
}
