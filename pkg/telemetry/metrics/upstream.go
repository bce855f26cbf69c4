package metrics

import (
	"strconv"
	"time"

	"nimproxy/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks calls to the inference API.
//
// Metrics:
//   - nimproxy_upstream_requests_total: calls that produced a response, by endpoint and status code
//   - nimproxy_upstream_duration_seconds: upstream round trip latency
//   - nimproxy_upstream_errors_total: failed calls by endpoint and error type
type UpstreamMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of upstream calls that returned a response",
			},
			[]string{"endpoint", "code"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "duration_seconds",
				Help:      "Upstream call latency in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"endpoint"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "errors_total",
				Help:      "Total number of failed upstream calls by error type",
			},
			[]string{"endpoint", "type"},
		),
	}

	registry.MustRegister(um.requests, um.latency, um.errors)

	return um
}

// RecordCall records an upstream call that produced a response.
func (um *UpstreamMetrics) RecordCall(endpoint string, statusCode int, duration time.Duration) {
	um.requests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	um.latency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordError increments the error counter for an endpoint.
func (um *UpstreamMetrics) RecordError(endpoint, errorType string) {
	um.errors.WithLabelValues(endpoint, errorType).Inc()
}
