// Package httpx holds HTTP helpers: a router factory on top of chi, cookie and
// download helpers, query string (de)serialization and a graceful server loop.
package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrInvalidRoute is returned by NewRouter for a route it cannot register.
var ErrInvalidRoute = errors.New("invalid route")

// AnyMethod registers a route for every HTTP method.
const AnyMethod = "*"

var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	AnyMethod:          true,
}

// Route describes one endpoint.
type Route struct {
	Method     string
	Path       string
	Handler    http.Handler
	Middleware []func(http.Handler) http.Handler
}

type routerConfig struct {
	corsOptions      *cors.Options
	customMiddleware []func(http.Handler) http.Handler
	metrics          *Metrics
	metricsNamespace string
	metricsRegistry  prometheus.Registerer
	enableMetrics    bool
	enableBrotli     bool
	brotliLevel      int
	enableRecoverer  bool
	authSecret       []byte
	notFound         http.HandlerFunc
}

// RouterOption configures NewRouter.
type RouterOption func(*routerConfig)

const defaultBrotliLevel = 4

// WithCORS enables CORS handling with the given options.
func WithCORS(options cors.Options) RouterOption {
	return func(c *routerConfig) {
		c.corsOptions = &options
	}
}

// WithMiddleware adds middleware applied to every route, after the built-in ones.
func WithMiddleware(middleware ...func(http.Handler) http.Handler) RouterOption {
	return func(c *routerConfig) {
		c.customMiddleware = append(c.customMiddleware, middleware...)
	}
}

// WithMetrics records request metrics under namespace on reg, or on the
// default registerer when reg is nil.
func WithMetrics(namespace string, reg prometheus.Registerer) RouterOption {
	return func(c *routerConfig) {
		c.enableMetrics = true
		c.metricsNamespace = namespace
		c.metricsRegistry = reg
	}
}

// WithBrotli enables brotli compression with an optional level (1-11, default 4).
func WithBrotli(level ...int) RouterOption {
	return func(c *routerConfig) {
		c.enableBrotli = true
		c.brotliLevel = defaultBrotliLevel
		if len(level) > 0 {
			c.brotliLevel = min(max(level[0], 1), 11)
		}
	}
}

// WithRecoverer turns handler panics into 500 responses.
func WithRecoverer() RouterOption {
	return func(c *routerConfig) {
		c.enableRecoverer = true
	}
}

// WithAuth requires a valid HS256 bearer token signed with secret on every route.
func WithAuth(secret []byte) RouterOption {
	return func(c *routerConfig) {
		c.authSecret = secret
	}
}

// WithNotFound sets the handler for unmatched paths.
func WithNotFound(h http.HandlerFunc) RouterOption {
	return func(c *routerConfig) {
		c.notFound = h
	}
}

// NewRouter builds a chi router serving routes. Every route is validated before
// any is registered, so an error leaves nothing half built.
func NewRouter(routes []Route, opts ...RouterOption) (chi.Router, error) {
	cfg := &routerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	for i, rt := range routes {
		if err := validateRoute(rt); err != nil {
			return nil, fmt.Errorf("route %d (%s %s): %w", i, rt.Method, rt.Path, err)
		}
	}

	if cfg.enableMetrics {
		m, err := NewMetrics(cfg.metricsNamespace, cfg.metricsRegistry)
		if err != nil {
			return nil, fmt.Errorf("router metrics: %w", err)
		}
		cfg.metrics = m
	}

	r := chi.NewRouter()
	r.Use(cfg.middleware()...)

	if cfg.notFound != nil {
		r.NotFound(cfg.notFound)
	}

	for _, rt := range routes {
		sub := r.With(rt.Middleware...)
		if rt.Method == AnyMethod {
			sub.Handle(rt.Path, rt.Handler)
			continue
		}
		sub.Method(strings.ToUpper(rt.Method), rt.Path, rt.Handler)
	}

	return r, nil
}

// Mount builds a router for routes and mounts it on parent under prefix.
func Mount(parent chi.Router, prefix string, routes []Route, opts ...RouterOption) error {
	sub, err := NewRouter(routes, opts...)
	if err != nil {
		return err
	}

	parent.Mount(prefix, sub)

	return nil
}

func (c *routerConfig) middleware() []func(http.Handler) http.Handler {
	mw := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
	}

	if c.enableRecoverer {
		mw = append(mw, middleware.Recoverer)
	}

	if c.metrics != nil {
		mw = append(mw, c.metrics.Middleware)
	}

	if c.corsOptions != nil {
		mw = append(mw, cors.Handler(*c.corsOptions))
	}

	if c.enableBrotli {
		mw = append(mw, Brotli(c.brotliLevel))
	}

	if c.authSecret != nil {
		mw = append(mw, RequireAuth(c.authSecret))
	}

	return append(mw, c.customMiddleware...)
}

func validateRoute(rt Route) error {
	if !knownMethods[strings.ToUpper(rt.Method)] {
		return fmt.Errorf("%w: unknown method %q", ErrInvalidRoute, rt.Method)
	}
	if !strings.HasPrefix(rt.Path, "/") {
		return fmt.Errorf("%w: path must start with /", ErrInvalidRoute)
	}
	if rt.Handler == nil {
		return fmt.Errorf("%w: nil handler", ErrInvalidRoute)
	}

	return nil
}
