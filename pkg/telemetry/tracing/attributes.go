package tracing

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set by the gateway. HTTP attributes follow the
// OpenTelemetry semantic conventions; gateway specific ones use the
// "nimproxy." namespace.
const (
	AttrHTTPMethod     = "http.request.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrServerAddress  = "server.address"
	AttrURLFull        = "url.full"

	AttrRequestID        = "nimproxy.request_id"
	AttrModel            = "nimproxy.model"
	AttrStream           = "nimproxy.stream"
	AttrMessagesReceived = "nimproxy.messages.received"
	AttrMessagesKept     = "nimproxy.messages.kept"
	AttrUpstreamEndpoint = "nimproxy.upstream.endpoint"
	AttrErrorType        = "nimproxy.error.type"

	AttrErrorMessage = "error.message"
)

// SetChatAttributes records the normalized chat request on span.
//
//	SetChatAttributes(span, "meta/llama-3.1-8b-instruct", false, 3, 2)
func SetChatAttributes(span trace.Span, model string, stream bool, received, kept int) {
	span.SetAttributes(
		attribute.String(AttrModel, model),
		attribute.Bool(AttrStream, stream),
		attribute.Int(AttrMessagesReceived, received),
		attribute.Int(AttrMessagesKept, kept),
	)
}

// SetRequestID records the gateway request id on span.
func SetRequestID(span trace.Span, requestID string) {
	if requestID == "" {
		return
	}
	span.SetAttributes(attribute.String(AttrRequestID, requestID))
}

// SetHTTPStatus records the response status on span. Statuses of 500 and
// above mark the span as failed.
func SetHTTPStatus(span trace.Span, statusCode int) {
	span.SetAttributes(attribute.Int(AttrHTTPStatusCode, statusCode))
	if statusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(statusCode))
	}
}

// SetErrorType records the classification of a failure, e.g. "timeout".
func SetErrorType(span trace.Span, errType string) {
	span.SetAttributes(attribute.String(AttrErrorType, errType))
}
