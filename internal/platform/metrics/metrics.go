package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds application-level Prometheus metrics.
type Metrics struct {
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPLatency       *prometheus.HistogramVec
}

// New creates and registers all application-level Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "refugeflow_http_requests_total",
			Help: "Total number of HTTP requests by route and status class",
		}, []string{"route", "status"}),
		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "refugeflow_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
