// Package search provides the debounced query scheduler used by interactive
// search. Rapid successive queries collapse into one execution of the latest
// query after a quiet period.
package search

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a scheduled query runs.
const DefaultDelay = 300 * time.Millisecond

// Debouncer schedules a query to run after a delay. Scheduling again before
// the delay elapses replaces the pending query and restarts the clock, and
// cancels the context of any execution still in flight, so only the latest
// query's results ever reach the caller.
type Debouncer struct {
	delay time.Duration
	run   func(ctx context.Context, query string)

	mu      sync.Mutex
	timer   *time.Timer
	cancel  context.CancelFunc
	gen     uint64
	stopped bool
}

// NewDebouncer creates a debouncer that invokes run for each query that
// survives the quiet period. A non-positive delay uses DefaultDelay.
func NewDebouncer(delay time.Duration, run func(ctx context.Context, query string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, run: run}
}

// Schedule queues query to run after the quiet period, superseding any
// pending or in-flight execution. Calls after Stop are ignored.
func (d *Debouncer) Schedule(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(query) })
}

// Flush runs any pending query immediately instead of waiting out the delay.
func (d *Debouncer) Flush(query string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()
	d.fire(query)
}

// Stop cancels the pending query and any execution in flight. The debouncer
// is dead afterwards; further Schedule calls do nothing.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer) fire(query string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.gen++
	gen := d.gen
	d.cancel = cancel
	d.mu.Unlock()

	d.run(ctx, query)

	d.mu.Lock()
	// A newer execution may own d.cancel by now; only release our own.
	if d.gen == gen {
		d.cancel = nil
	}
	d.mu.Unlock()
	cancel()
}
