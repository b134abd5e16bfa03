package board

import (
	"sync"
	"time"
)

// Debouncer is a trailing-edge debounce primitive: a timer handle plus a
// single pending-payload slot. A new payload replaces whatever is in the
// slot and resets the timer; when the timer fires, the slot is drained and
// the callback invoked with its contents.
//
// Each payload carries a generation number. A callback still in flight when
// a newer payload arrives can detect that it has been superseded and skip
// compensating work that the newer flush will redo anyway.
type Debouncer[T any] struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func(payload T, gen uint64)
	timer   *time.Timer
	pending *T
	gen     uint64
}

// NewDebouncer creates a debouncer firing fn after window of quiet.
func NewDebouncer[T any](window time.Duration, fn func(payload T, gen uint64)) *Debouncer[T] {
	return &Debouncer[T]{window: window, fn: fn}
}

// Trigger replaces the pending payload and resets the quiet-window timer.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = &v
	d.gen++
	if d.timer == nil {
		d.timer = time.AfterFunc(d.window, d.fire)
	} else {
		d.timer.Reset(d.window)
	}
}

func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return
	}
	v := *d.pending
	gen := d.gen
	d.pending = nil
	d.mu.Unlock()

	d.fn(v, gen)
}

// Superseded reports whether a newer payload arrived after the given
// generation was drained.
func (d *Debouncer[T]) Superseded(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen != d.gen
}

// Flush drains the pending payload immediately, if any.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.fire()
}

// Stop cancels the timer and discards any pending payload.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
}
