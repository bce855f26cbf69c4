package metrics

import (
	"time"

	"nimproxy/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the Prometheus registry of the gateway and exposes the
// recording methods used by the middleware and the handlers.
//
// It satisfies middleware.RequestRecorder and handlers.UpstreamRecorder.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	upstreamMetrics *UpstreamMetrics
}

// NewCollector creates a metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created and
// the Go runtime and process collectors are registered on it.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "nimproxy"}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "nimproxy"
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		// Upstream completions range from tens of milliseconds to the 60s timeout.
		cfg.RequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		requestMetrics:  NewRequestMetrics(cfg, registry),
		upstreamMetrics: NewUpstreamMetrics(cfg, registry),
	}
}

// RecordRequest records a completed inbound request.
//
// Parameters:
//   - route: registered route pattern (e.g., "/v1/chat/completions")
//   - statusCode: HTTP status written to the caller
//   - duration: time spent in the handler chain
func (c *Collector) RecordRequest(route string, statusCode int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.requestMetrics.RecordRequest(route, statusCode, duration)
}

// RecordUpstreamCall records an upstream call that produced an HTTP response.
//
// Parameters:
//   - endpoint: upstream path ("/chat/completions", "/models")
//   - statusCode: status returned by the upstream
//   - duration: round trip time including body read
func (c *Collector) RecordUpstreamCall(endpoint string, statusCode int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.upstreamMetrics.RecordCall(endpoint, statusCode, duration)
}

// RecordUpstreamError records a failed upstream call.
//
// Parameters:
//   - endpoint: upstream path
//   - errorType: "status", "timeout" or "transport"
func (c *Collector) RecordUpstreamError(endpoint, errorType string) {
	if !c.config.Enabled {
		return
	}
	c.upstreamMetrics.RecordError(endpoint, errorType)
}

// RegisterGateway exposes the gateway request counter and uptime.
// It must be called at most once per collector.
func (c *Collector) RegisterGateway(stats GatewayStats) {
	c.registry.MustRegister(newGatewayCollectors(c.config, stats)...)
}

// Enabled reports whether recording is enabled.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// Path returns the HTTP path the metrics endpoint is mounted on.
func (c *Collector) Path() string {
	return c.config.Path
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
