// Package metrics provides Prometheus collection and exposure for the HTTP
// delivery layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers request-level metrics for the HTTP server.
type Collector struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewCollector creates a Collector with its own registry so tests can run
// several instances without duplicate-registration panics.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdeck_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status_code"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flightdeck_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(c.requests, c.latency)

	return c
}

// RecordRequest counts one finished request.
func (c *Collector) RecordRequest(method string, statusCode int) {
	c.requests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
}

// RecordLatency observes one request's duration.
func (c *Collector) RecordLatency(duration time.Duration) {
	c.latency.Observe(duration.Seconds())
}

// Handler returns the scrape endpoint handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
