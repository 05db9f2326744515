package taskqueue

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Davincible/d-flow/internal/promutil"
)

// Metrics holds the Prometheus collectors for queues. One Metrics value can be
// shared by many queues; series are labelled by queue name.
type Metrics struct {
	enqueued *prometheus.CounterVec
	executed *prometheus.CounterVec
	failed   *prometheus.CounterVec
	depth    *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the queue collectors on reg, or on the
// default registerer when reg is nil. Calling it twice with the same registry
// returns collectors backed by the same series.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "taskqueue"
	}

	enqueued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_enqueued_total",
		Help:      "Total number of calls added to the queue.",
	}, []string{"queue"})
	executed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_executed_total",
		Help:      "Total number of calls executed.",
	}, []string{"queue"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_failed_total",
		Help:      "Total number of calls whose action failed.",
	}, []string{"queue"})
	depth := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of pending calls.",
	}, []string{"queue"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "call_duration_seconds",
		Help:      "Duration of queued call executions.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
	}, []string{"queue"})

	var err error
	if enqueued, err = promutil.Register(reg, enqueued); err != nil {
		return nil, err
	}
	if executed, err = promutil.Register(reg, executed); err != nil {
		return nil, err
	}
	if failed, err = promutil.Register(reg, failed); err != nil {
		return nil, err
	}
	if depth, err = promutil.Register(reg, depth); err != nil {
		return nil, err
	}
	if duration, err = promutil.Register(reg, duration); err != nil {
		return nil, err
	}

	return &Metrics{
		enqueued: enqueued,
		executed: executed,
		failed:   failed,
		depth:    depth,
		duration: duration,
	}, nil
}

func (m *Metrics) recordEnqueue(queue string, depth int) {
	if m == nil {
		return
	}
	queue = promutil.Label(queue, defaultName)
	m.enqueued.WithLabelValues(queue).Inc()
	m.depth.WithLabelValues(queue).Set(float64(depth))
}

func (m *Metrics) recordDepth(queue string, depth int) {
	if m == nil {
		return
	}
	m.depth.WithLabelValues(promutil.Label(queue, defaultName)).Set(float64(depth))
}

func (m *Metrics) recordExecution(queue string, took time.Duration, err error) {
	if m == nil {
		return
	}
	queue = promutil.Label(queue, defaultName)
	m.executed.WithLabelValues(queue).Inc()
	m.duration.WithLabelValues(queue).Observe(took.Seconds())
	if err != nil {
		m.failed.WithLabelValues(queue).Inc()
	}
}
