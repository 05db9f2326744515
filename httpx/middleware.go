package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Davincible/d-flow/internal/promutil"
)

// Metrics holds the Prometheus collectors recorded by the router.
type Metrics struct {
	TotalRequests  *prometheus.CounterVec
	ResponseStatus *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// NewMetrics creates and registers the request collectors. Series are labelled
// with the matched chi route pattern rather than the raw path.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "http_server"
	}

	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"route"})
	status := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_response_status",
		Help:      "HTTP response status codes",
	}, []string{"status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
	}, []string{"route"})

	var err error
	if total, err = promutil.Register(reg, total); err != nil {
		return nil, err
	}
	if status, err = promutil.Register(reg, status); err != nil {
		return nil, err
	}
	if duration, err = promutil.Register(reg, duration); err != nil {
		return nil, err
	}

	return &Metrics{
		TotalRequests:  total,
		ResponseStatus: status,
		HTTPDuration:   duration,
	}, nil
}

// Middleware records the request count, status and latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newResponseWriter(w)
		start := time.Now()

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = promutil.Label(rctx.RoutePattern(), route)
		}

		m.ResponseStatus.WithLabelValues(strconv.Itoa(rw.getStatus())).Inc()
		m.TotalRequests.WithLabelValues(route).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Brotli compresses responses for clients that accept br.
func Brotli(level int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !acceptsBrotli(r) {
				next.ServeHTTP(w, r)
				return
			}

			// Ranges and already encoded requests are passed through untouched.
			if r.Header.Get("Range") != "" || r.Header.Get("Content-Encoding") != "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Content-Encoding", "br")
			w.Header().Del("Content-Length")
			w.Header().Add("Vary", "Accept-Encoding")

			bw := &brotliResponseWriter{
				ResponseWriter: w,
				writer:         brotli.NewWriterLevel(w, level),
			}
			defer bw.Close()

			next.ServeHTTP(bw, r)
		})
	}
}

func acceptsBrotli(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		coding, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(coding, "br") {
			return true
		}
	}

	return false
}

// brotliResponseWriter wraps http.ResponseWriter to provide Brotli compression
type brotliResponseWriter struct {
	http.ResponseWriter
	writer *brotli.Writer
}

func (w *brotliResponseWriter) Write(p []byte) (int, error) {
	return w.writer.Write(p)
}

func (w *brotliResponseWriter) WriteHeader(code int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

func (w *brotliResponseWriter) Close() error {
	return w.writer.Close()
}

func (w *brotliResponseWriter) Flush() {
	w.writer.Flush()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// responseWriter records the status code written by the handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) getStatus() int {
	return rw.statusCode
}
