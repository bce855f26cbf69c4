// Package tracing provides OpenTelemetry distributed tracing for the gateway.
//
// # Overview
//
// Every inbound request gets a server span, and every upstream call a
// client span beneath it. Spans are exported over OTLP/gRPC to the
// collector configured in telemetry.tracing.
//
// # Trace Context Propagation
//
// W3C Trace Context is read from inbound requests and written to the
// upstream request, so a trace started by the caller continues through the
// gateway into the inference API:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// # Sampling Strategies
//
//   - always: Sample all traces
//   - never: Sample no root traces
//   - ratio: Sample a fraction of root traces by trace ID
//
// Samplers respect the caller's sampling decision when a traceparent is
// present.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "chat.normalize")
//	defer span.End()
//	tracing.SetChatAttributes(span, model, false, 3, 2)
//
// When tracing is disabled New returns a tracer backed by a noop provider,
// so callers never need to check Enabled before creating spans.
package tracing
