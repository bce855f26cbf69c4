package middleware

import (
	"net/http"

	"nimproxy/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader echoes the trace id of sampled requests to the caller.
const TraceIDHeader = "X-Trace-ID"

// TracingMiddleware starts a server span for every request served by next,
// continuing the caller's trace when a traceparent header is present.
// The span is named "<METHOD> <route>". A nil tracer disables it.
//
// Example usage:
//
//	mux.Handle("/v1/models", TracingMiddleware(tracer, "/v1/models")(models))
func TracingMiddleware(tracer trace.Tracer, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tracer == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := tracing.Extract(r.Context(), r.Header)
			ctx, span := tracer.Start(ctx, r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String(tracing.AttrHTTPMethod, r.Method),
					attribute.String(tracing.AttrHTTPRoute, route),
				),
			)
			defer span.End()

			tracing.SetRequestID(span, GetRequestID(ctx))
			if sc := span.SpanContext(); sc.IsSampled() {
				w.Header().Set(TraceIDHeader, sc.TraceID().String())
			}

			rw := newStatusRecorder(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			tracing.SetHTTPStatus(span, rw.statusCode)
		})
	}
}
