package timing

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned by WithTimeout when the deadline passes before the
// action settles. It is distinct from any error the action returns.
var ErrTimeout = errors.New("operation timed out")

// WithTimeout races fn against a timer of d. Whichever settles first decides
// the result. When the timer wins, ErrTimeout is returned and fn keeps running
// in the background; its context is cancelled so a cooperative fn can stop
// early, and its result is discarded. A panic in fn is returned as an error.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	actionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		var r result
		defer func() {
			if p := recover(); p != nil {
				r.err = fmt.Errorf("action panicked: %v", p)
			}
			done <- r
		}()

		r.value, r.err = fn(actionCtx)
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case r := <-done:
		return r.value, r.err
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
