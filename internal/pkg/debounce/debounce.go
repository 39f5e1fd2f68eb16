// Package debounce provides a single-slot cancellable scheduler:
// scheduling replaces any pending task instead of queueing a second
// one, so rapid bursts collapse into one execution after quiescence.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces scheduled functions. Only the most recently
// scheduled function runs, and only after the window elapses without
// another Schedule call superseding it.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New creates a debouncer with the given quiescence window.
// A non-positive window is coerced to 1ms so coalescing still applies.
func New(window time.Duration) *Debouncer {
	if window <= 0 {
		window = time.Millisecond
	}
	return &Debouncer{window: window}
}

// Schedule arranges for fn to run after the window elapses, replacing
// any pending function. Last writer wins.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		// A later Schedule or Stop may have raced with the timer firing.
		if d.stopped || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Stop cancels any pending function and rejects further scheduling.
// Safe to call more than once.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
