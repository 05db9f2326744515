package taskqueue

import (
	"context"
	"time"
)

// AsyncAction is invoked once per pending call of an AsyncQueue.
type AsyncAction[A any] func(ctx context.Context, args A) error

// AsyncQueue is a FIFO of pending calls whose drain contains failures.
//
// Each call in ExecuteAll runs inside a failure boundary: an error or panic
// discards that call, is reported to the error handler and the logger, and then
// either stops the drain or, with WithIgnoreErrors, lets it continue.
type AsyncQueue[A any] struct {
	fifo[A]

	action  AsyncAction[A]
	onError func(args A, err error)
}

// NewAsync creates an AsyncQueue that runs action for every enqueued call.
func NewAsync[A any](action AsyncAction[A], opts ...Option) *AsyncQueue[A] {
	if action == nil {
		panic("taskqueue: nil action")
	}

	q := &AsyncQueue[A]{action: action}
	q.setup(newConfig(opts))

	return q
}

// OnError sets a handler called with the arguments and error of every failed
// call during ExecuteAll. It must be set before draining starts.
func (q *AsyncQueue[A]) OnError(fn func(args A, err error)) {
	q.onError = fn
}

// ExecuteOne runs the action with the front call and removes it. Panics are
// returned as *PanicError. It reports false when the queue is empty.
func (q *AsyncQueue[A]) ExecuteOne(ctx context.Context) (bool, error) {
	args, ok := q.pop()
	if !ok {
		return false, nil
	}

	return true, q.invoke(ctx, args)
}

// ExecuteAll drains the queue in order. It returns immediately when the queue is
// halted and checks the halt flag and ctx before every call. Failed calls are
// never returned as an error; the only error is ctx.Err() when ctx ends between
// calls.
func (q *AsyncQueue[A]) ExecuteAll(ctx context.Context) error {
	if q.Halted() {
		q.cfg.logger.Debug("drain skipped, queue halted")
		return nil
	}

	for !q.Halted() {
		if err := ctx.Err(); err != nil {
			return err
		}

		args, ok := q.pop()
		if !ok {
			return nil
		}

		if err := q.invoke(ctx, args); err != nil {
			q.report(args, err)
			if !q.cfg.ignoreErrors {
				q.cfg.logger.Debug("drain stopped after failed call", "pending", q.Len())
				return nil
			}
		}
	}

	return nil
}

// Go runs ExecuteAll on a new goroutine. The returned channel receives its
// result and is then closed.
func (q *AsyncQueue[A]) Go(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)
		done <- q.ExecuteAll(ctx)
	}()

	return done
}

func (q *AsyncQueue[A]) invoke(ctx context.Context, args A) (err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
		q.cfg.metrics.recordExecution(q.cfg.name, time.Since(start), err)
	}()

	return q.action(ctx, args)
}

func (q *AsyncQueue[A]) report(args A, err error) {
	q.cfg.logger.Warn("queued call failed",
		"error", err,
		"ignore_errors", q.cfg.ignoreErrors,
	)

	if q.onError != nil {
		q.onError(args, err)
	}
}
