package metrics

import (
	"strconv"
	"time"

	"nimproxy/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks inbound HTTP traffic per route.
//
// Metrics:
//   - nimproxy_http_requests_total: request count by route and status code
//   - nimproxy_http_request_duration_seconds: handler latency by route
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled by route and status code",
			},
			[]string{"route", "code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"route"},
		),
	}

	registry.MustRegister(rm.requestsTotal, rm.requestDuration)

	return rm
}

// RecordRequest records one completed request.
func (rm *RequestMetrics) RecordRequest(route string, statusCode int, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	rm.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
