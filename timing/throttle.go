package timing

import (
	"sync"
	"time"
)

// Throttler runs an action at most once per window.
//
// A call while no window is open runs the action immediately in the caller's
// goroutine and opens a window. Calls inside an open window are not dropped:
// the latest one is kept and runs when the window ends, which opens the next
// window.
type Throttler[A any] struct {
	action func(A)
	window time.Duration
	opts   *options

	mu      sync.Mutex
	timer   *time.Timer
	active  bool
	pending bool
	args    A
	gen     uint64
}

// NewThrottler wraps action. It panics if action is nil.
func NewThrottler[A any](action func(A), window time.Duration, opts ...Option) *Throttler[A] {
	if action == nil {
		panic("timing: nil action")
	}

	return &Throttler[A]{
		action: action,
		window: window,
		opts:   newOptions(opts),
	}
}

// Call invokes the throttled action.
func (t *Throttler[A]) Call(args A) {
	t.mu.Lock()
	if t.active {
		t.args = args
		t.pending = true
		t.mu.Unlock()
		return
	}

	t.active = true
	t.openLocked()
	t.mu.Unlock()

	t.action(args)
}

// Stop cancels the open window and drops any deferred call.
func (t *Throttler[A]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}

	var zero A
	t.args = zero
	t.active = false
	t.pending = false
	t.gen++
}

// Pending reports whether a deferred call waits for the window to end.
func (t *Throttler[A]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.pending
}

func (t *Throttler[A]) openLocked() {
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.window, func() { t.windowClosed(gen) })
}

func (t *Throttler[A]) windowClosed(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}

	if !t.pending {
		t.timer = nil
		t.active = false
		t.mu.Unlock()
		return
	}

	args := t.args
	var zero A
	t.args = zero
	t.pending = false
	t.openLocked()
	t.mu.Unlock()

	t.opts.runDetached("throttle", func() { t.action(args) })
}
