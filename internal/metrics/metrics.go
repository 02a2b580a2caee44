// Package metrics exposes Prometheus collectors for the suite catalogue,
// the validation chain and the REST API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	// CacheHitsTotal counts catalogue scope cache hits by scope
	CacheHitsTotal *prometheus.CounterVec

	// CacheMissesTotal counts catalogue scope cache misses by scope
	CacheMissesTotal *prometheus.CounterVec

	// ResolutionsTotal counts resolutions built (shared resolutions are counted once)
	ResolutionsTotal prometheus.Counter

	// ResolutionDuration tracks resolution build time in seconds
	ResolutionDuration prometheus.Histogram

	// ValidationsTotal counts token verdicts by token kind and status
	ValidationsTotal *prometheus.CounterVec

	// HTTPRequestsTotal counts API requests by method, route and status code
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration tracks API request duration in seconds
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptosuite_catalogue_cache_hits_total",
				Help: "Total number of catalogue cache hits by scope",
			},
			[]string{"scope"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptosuite_catalogue_cache_misses_total",
				Help: "Total number of catalogue cache misses by scope",
			},
			[]string{"scope"},
		),
		ResolutionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cryptosuite_resolutions_total",
				Help: "Total number of suite resolutions built",
			},
		),
		ResolutionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cryptosuite_resolution_duration_seconds",
				Help:    "Suite resolution duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs to 200ms
			},
		),
		ValidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptosuite_validations_total",
				Help: "Total number of token validations by kind and status",
			},
			[]string{"kind", "status"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptosuite_http_requests_total",
				Help: "Total number of API requests by method, route and status",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptosuite_http_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to 2s
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the registry in the Prometheus format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one API request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
