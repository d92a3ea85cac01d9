package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the dashboard
// server.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec   // labels: route, status
	RequestDuration *prometheus.HistogramVec // labels: route
	RateLimited     prometheus.Counter

	// View pipeline metrics.
	SceneRepaints *prometheus.CounterVec // labels: view
	StateCommands *prometheus.CounterVec // labels: command

	DatasetDegraded prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxiflow",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and response status.",
		}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taxiflow",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by route.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taxiflow",
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		SceneRepaints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxiflow",
			Name:      "scene_repaints_total",
			Help:      "View repaint notifications by view.",
		}, []string{"view"}),
		StateCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxiflow",
			Name:      "state_commands_total",
			Help:      "View state commands applied, by command name.",
		}, []string{"command"}),
		DatasetDegraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "taxiflow",
			Name:      "dataset_degraded",
			Help:      "Number of optional artifacts that failed to load at boot.",
		}),
	}
}

// NewMetrics creates and registers all server metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RateLimited,
		m.SceneRepaints,
		m.StateCommands,
		m.DatasetDegraded,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default
// registry, so multiple tests can construct servers without "already
// registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
