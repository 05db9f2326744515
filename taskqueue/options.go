package taskqueue

import "log/slog"

const defaultName = "queue"

type config struct {
	name         string
	logger       *slog.Logger
	metrics      *Metrics
	ignoreErrors bool
}

// Option configures a queue.
type Option func(*config)

func newConfig(opts []Option) *config {
	c := &config{
		name: defaultName,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With(slog.String("queue", c.name))

	return c
}

// WithName sets the queue name used in log lines and metric labels.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics records queue activity on m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithIgnoreErrors makes an AsyncQueue keep draining after a failed call.
// It has no effect on a synchronous Queue.
func WithIgnoreErrors() Option {
	return func(c *config) {
		c.ignoreErrors = true
	}
}
