// Package metrics instruments request dispatch with Prometheus
// collectors and exposes them over the standard exposition endpoint.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the dispatch collectors behind a dedicated Prometheus
// registry. Observation methods are no-ops on a nil receiver, so callers
// can leave instrumentation off without guarding every call site.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	duration  prometheus.Histogram
	unmatched prometheus.Counter
}

// New creates a Metrics bundle registered under the given namespace.
func New(namespace string) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of dispatched requests.",
	}, []string{"method", "status"})

	m.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent matching routes and running handlers.",
		Buckets:   prometheus.DefBuckets,
	})

	m.unmatched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unmatched_total",
		Help:      "Requests that matched no registered route.",
	})

	m.registry.MustRegister(m.requests, m.duration, m.unmatched)
	return m
}

// ObserveDispatch records one completed dispatch cycle.
func (m *Metrics) ObserveDispatch(method string, status int, elapsed time.Duration, matched bool) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.Observe(elapsed.Seconds())
	if !matched {
		m.unmatched.Inc()
	}
}

// Handler returns the exposition endpoint for the bundle's registry,
// ready to be registered as a route handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying Prometheus registry so applications
// can register their own collectors next to the router's.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
