// Package taskqueue provides FIFO queues of deferred calls to a single action.
//
// Calls are captured with Enqueue and run later, one at a time, in insertion
// order with ExecuteOne or ExecuteAll. Queue runs its action synchronously and
// aborts a drain on the first failure. AsyncQueue passes a context to its action,
// contains failures per call and can optionally keep draining past them.
package taskqueue

import (
	"time"
)

// Action is invoked once per pending call with the arguments captured by Enqueue.
type Action[A any] func(args A) error

// Queue is a synchronous FIFO of pending calls.
type Queue[A any] struct {
	fifo[A]

	action Action[A]
}

// New creates a Queue that runs action for every enqueued call.
func New[A any](action Action[A], opts ...Option) *Queue[A] {
	if action == nil {
		panic("taskqueue: nil action")
	}

	q := &Queue[A]{action: action}
	q.setup(newConfig(opts))

	return q
}

// ExecuteOne runs the action with the front call and removes that call, whether
// or not the action succeeds. It reports false without calling the action when
// the queue is empty. A panic in the action propagates to the caller.
func (q *Queue[A]) ExecuteOne() (bool, error) {
	args, ok := q.pop()
	if !ok {
		return false, nil
	}

	return true, q.invoke(args)
}

// ExecuteAll drains the queue in order. It returns immediately when the queue is
// halted, checks the halt flag again before every call, and stops at the first
// error, returning it. The failed call has already been removed.
func (q *Queue[A]) ExecuteAll() error {
	if q.Halted() {
		q.cfg.logger.Debug("drain skipped, queue halted")
		return nil
	}

	for !q.Halted() {
		ran, err := q.ExecuteOne()
		if err != nil {
			return err
		}
		if !ran {
			break
		}
	}

	return nil
}

func (q *Queue[A]) invoke(args A) error {
	start := time.Now()
	err := q.action(args)
	q.cfg.metrics.recordExecution(q.cfg.name, time.Since(start), err)

	return err
}
