package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()

	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, exporter
}

func TestTracingMiddleware_NilTracer(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if trace.SpanContextFromContext(r.Context()).IsValid() {
			t.Error("unexpected span in context")
		}
	})

	w := httptest.NewRecorder()
	TracingMiddleware(nil, "/health")(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Header().Get(TraceIDHeader) != "" {
		t.Error("trace id header set without tracer")
	}
}

func TestTracingMiddleware_ServerSpan(t *testing.T) {
	tp, exporter := newTestProvider(t)

	var inner trace.SpanContext
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = trace.SpanContextFromContext(r.Context())
		w.WriteHeader(http.StatusBadGateway)
	})
	wrapped := RequestIDMiddleware(TracingMiddleware(tp.Tracer("test"), "/v1/chat/completions")(handler))

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name != "POST /v1/chat/completions" {
		t.Errorf("span name = %q", span.Name)
	}
	if span.SpanKind != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", span.SpanKind)
	}
	if span.Status.Code != codes.Error {
		t.Errorf("status = %v, want Error for 502", span.Status.Code)
	}
	if inner.SpanID() != span.SpanContext.SpanID() {
		t.Error("handler context does not carry the server span")
	}
	if got := w.Header().Get(TraceIDHeader); got != span.SpanContext.TraceID().String() {
		t.Errorf("%s = %q, want %q", TraceIDHeader, got, span.SpanContext.TraceID())
	}

	var requestID string
	for _, kv := range span.Attributes {
		if kv.Key == "nimproxy.request_id" {
			requestID = kv.Value.AsString()
		}
	}
	if requestID == "" || requestID != w.Header().Get(RequestIDHeader) {
		t.Errorf("request id attribute = %q, header = %q", requestID, w.Header().Get(RequestIDHeader))
	}
}

func TestTracingMiddleware_ContinuesCallerTrace(t *testing.T) {
	tp, exporter := newTestProvider(t)

	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	TracingMiddleware(tp.Tracer("test"), "/v1/models")(handler).ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	if got := spans[0].SpanContext.TraceID().String(); got != traceID {
		t.Errorf("trace id = %s, want %s", got, traceID)
	}
	if got := spans[0].Parent.SpanID().String(); got != "00f067aa0ba902b7" {
		t.Errorf("parent span id = %s", got)
	}
	if spans[0].Status.Code == codes.Error {
		t.Error("200 marked span as failed")
	}
}
