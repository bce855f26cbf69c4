// Package telemetry groups the observability packages of the gateway.
//
// # Components
//
//   - logging: slog setup with credential redaction
//   - metrics: Prometheus collectors and the /metrics handler
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - reporter: periodic gateway statistics log line on a cron schedule
//
// Each component is configured under the telemetry section of the
// configuration file and can be enabled independently.
package telemetry
