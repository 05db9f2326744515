package taskqueue

import (
	"sync"
	"sync/atomic"
)

const (
	defaultQueueCap     = 16
	compactMinCap       = 64
	compactShrinkFactor = 4
)

// fifo holds the pending calls and halt flag shared by Queue and AsyncQueue.
type fifo[A any] struct {
	cfg *config

	mu      sync.Mutex
	pending []A
	halted  atomic.Bool
}

func (f *fifo[A]) setup(cfg *config) {
	f.cfg = cfg
	f.pending = make([]A, 0, defaultQueueCap)
}

// Enqueue appends a pending call to the tail of the queue.
func (f *fifo[A]) Enqueue(args A) {
	f.mu.Lock()
	f.pending = append(f.pending, args)
	depth := len(f.pending)
	f.mu.Unlock()

	f.cfg.metrics.recordEnqueue(f.cfg.name, depth)
}

// Len returns the number of pending calls.
func (f *fifo[A]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.pending)
}

// BreakOut halts the queue. A drain in progress stops before its next call;
// the call currently running is not interrupted. There is no way to resume.
func (f *fifo[A]) BreakOut() {
	if f.halted.CompareAndSwap(false, true) {
		f.cfg.logger.Debug("queue halted", "pending", f.Len())
	}
}

// Halted reports whether BreakOut has been called.
func (f *fifo[A]) Halted() bool {
	return f.halted.Load()
}

// pop removes and returns the front call.
func (f *fifo[A]) pop() (A, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var zero A
	if len(f.pending) == 0 {
		return zero, false
	}

	args := f.pending[0]
	f.pending[0] = zero
	f.pending = f.pending[1:]
	f.maybeCompactLocked()

	f.cfg.metrics.recordDepth(f.cfg.name, len(f.pending))

	return args, true
}

// items returns a copy of the pending calls in execution order.
func (f *fifo[A]) items() []A {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]A, len(f.pending))
	copy(out, f.pending)

	return out
}

// appendAll adds calls to the tail, keeping their order.
func (f *fifo[A]) appendAll(calls []A) {
	if len(calls) == 0 {
		return
	}

	f.mu.Lock()
	f.pending = append(f.pending, calls...)
	depth := len(f.pending)
	f.mu.Unlock()

	f.cfg.metrics.recordDepth(f.cfg.name, depth)
}

func (f *fifo[A]) maybeCompactLocked() {
	n, c := len(f.pending), cap(f.pending)
	if c < compactMinCap || n*compactShrinkFactor >= c {
		return
	}

	compacted := make([]A, n, max(c/2, defaultQueueCap, n))
	copy(compacted, f.pending)
	f.pending = compacted
}
