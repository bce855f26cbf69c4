// Package metrics provides Prometheus metrics for the gateway.
//
// # Metrics
//
//   - nimproxy_http_requests_total{route,code}
//   - nimproxy_http_request_duration_seconds{route}
//   - nimproxy_upstream_requests_total{endpoint,code}
//   - nimproxy_upstream_duration_seconds{endpoint}
//   - nimproxy_upstream_errors_total{endpoint,type}
//   - nimproxy_chat_requests_total
//   - nimproxy_uptime_seconds
//
// The namespace prefix is configurable. Route labels are the registered
// route patterns, never raw request paths, so label cardinality is bounded
// by the route table.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RegisterGateway(gateway)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// When MetricsConfig.Enabled is false the Record methods are no-ops.
package metrics
