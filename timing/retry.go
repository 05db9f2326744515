package timing

import (
	"context"
	"fmt"
	"time"
)

// RetryError is returned by Retry when every attempt failed and no fallback
// was given.
type RetryError struct {
	Attempts int   // Number of attempts made
	Err      error // Error of the last attempt
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error {
	return e.Err
}

// Retry calls fn until it succeeds, making at most maxAttempts attempts in
// total with delay between them. A maxAttempts below one is treated as one.
//
// When every attempt fails the result of onFailure is returned if one is
// given, otherwise a *RetryError wrapping the last error. If ctx ends while
// waiting between attempts Retry stops and returns an error wrapping ctx.Err().
func Retry[T any](ctx context.Context, fn func(ctx context.Context) (T, error), maxAttempts int, delay time.Duration, onFailure ...func() (T, error)) (T, error) {
	var zero T

	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		if err := Pause(ctx, delay); err != nil {
			return zero, fmt.Errorf("retry interrupted after %d attempts (last error: %v): %w", attempt, lastErr, err)
		}
	}

	if len(onFailure) > 0 && onFailure[0] != nil {
		return onFailure[0]()
	}

	return zero, &RetryError{Attempts: maxAttempts, Err: lastErr}
}
