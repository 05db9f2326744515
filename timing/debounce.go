package timing

import (
	"sync"
	"time"
)

// Debouncer delays or suppresses repeated calls to an action.
//
// In trailing mode every Call restarts a wait timer and the action runs once
// the calls stop for wait, with the arguments of the last call. In leading mode
// (immediate) the first Call runs the action right away in the caller's
// goroutine and opens a suppression window of wait; calls inside the window are
// dropped.
type Debouncer[A any] struct {
	action    func(A)
	wait      time.Duration
	immediate bool
	opts      *options

	mu      sync.Mutex
	timer   *time.Timer
	waiting bool
	pending bool
	args    A
	gen     uint64
}

// NewDebouncer wraps action. It panics if action is nil.
func NewDebouncer[A any](action func(A), wait time.Duration, immediate bool, opts ...Option) *Debouncer[A] {
	if action == nil {
		panic("timing: nil action")
	}

	return &Debouncer[A]{
		action:    action,
		wait:      wait,
		immediate: immediate,
		opts:      newOptions(opts),
	}
}

// Call invokes the debounced action.
func (d *Debouncer[A]) Call(args A) {
	if d.immediate {
		d.callLeading(args)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.waiting = true
	d.pending = true
	d.args = args

	gen := d.gen
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

func (d *Debouncer[A]) callLeading(args A) {
	d.mu.Lock()
	if d.waiting {
		d.mu.Unlock()
		return
	}

	d.waiting = true
	gen := d.gen
	d.timer = time.AfterFunc(d.wait, func() { d.reopen(gen) })
	d.mu.Unlock()

	d.action(args)
}

// Clear cancels any scheduled invocation and ends the suppression window
// without running the action.
func (d *Debouncer[A]) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
}

// Flush cancels the timer and, if a trailing invocation is pending, runs it now
// in the caller's goroutine. Without a pending invocation it behaves like Clear.
func (d *Debouncer[A]) Flush() {
	d.mu.Lock()
	args, pending := d.args, d.pending
	d.stopLocked()
	d.mu.Unlock()

	if pending {
		d.action(args)
	}
}

// Pending reports whether a trailing invocation is scheduled.
func (d *Debouncer[A]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pending
}

// Waiting reports whether a timer is armed, either a scheduled invocation or a
// leading-mode suppression window.
func (d *Debouncer[A]) Waiting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.waiting
}

// stopLocked cancels the timer and bumps the generation so a callback that has
// already been dispatched becomes a no-op.
func (d *Debouncer[A]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	var zero A
	d.args = zero
	d.waiting = false
	d.pending = false
	d.gen++
}

func (d *Debouncer[A]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}

	args := d.args
	d.timer = nil
	d.stopLocked()
	d.mu.Unlock()

	d.opts.runDetached("debounce", func() { d.action(args) })
}

func (d *Debouncer[A]) reopen(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen {
		return
	}

	d.timer = nil
	d.waiting = false
}
