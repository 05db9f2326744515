// Package timing wraps functions with delayed, rate-limited, retried or
// deadline-bound execution.
//
// Debouncer and Throttler own at most one pending timer each. Their cancellation
// is cooperative: Clear, Flush and Stop cancel timers but never interrupt an
// action that is already running.
package timing

import (
	"log/slog"
)

type options struct {
	logger *slog.Logger
}

// Option configures a Debouncer or Throttler.
type Option func(*options)

// WithLogger sets the logger used to report panics recovered from timer
// callbacks. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// runDetached runs fn from a timer callback, where no caller can observe a
// panic, and logs it instead of crashing the process.
func (o *options) runDetached(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("timer callback panicked", "wrapper", kind, "panic", r)
		}
	}()

	fn()
}
