// Package promutil holds small helpers shared by the packages that export
// Prometheus collectors.
package promutil

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Register registers collector with reg. When an equal collector is already
// registered the existing one is returned, so constructors can be called more
// than once against the same registry.
func Register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		existing, ok := are.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}

// Label returns v, or fallback when v is empty.
func Label(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
