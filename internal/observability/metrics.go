// Package observability defines the Prometheus collectors exported by the
// dev alerts service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weatherlens"

// Metrics holds the counters and histograms for the alerts service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec   // labels: method, route, status
	RequestDuration *prometheus.HistogramVec // labels: route
	RulesCreated    prometheus.Counter
	RulesDeleted    prometheus.Counter
	RulesRejected   *prometheus.CounterVec // labels: field
}

// NewMetrics creates all service metrics and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	return newMetrics(prometheus.DefaultRegisterer)
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return newMetrics(reg), reg
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by the alerts service.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Alerts service request latency.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"route"}),
		RulesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_rules_created_total",
			Help:      "Alert rules stored.",
		}),
		RulesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_rules_deleted_total",
			Help:      "Alert rules removed.",
		}),
		RulesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_rules_rejected_total",
			Help:      "Create requests rejected by validation, by offending field.",
		}, []string{"field"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RulesCreated,
		m.RulesDeleted,
		m.RulesRejected,
	)

	return m
}
