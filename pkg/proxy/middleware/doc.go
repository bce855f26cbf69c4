// Package middleware provides HTTP middleware for cross-cutting concerns:
// request IDs, structured request logging, CORS, panic recovery, and
// per-route metrics and tracing.
//
// # Middleware Chain
//
// The server composes the chain as:
//
//	handler = Recovery(Logging(RequestID(CORS(mux))))
//
// Recovery is outermost so that panics raised anywhere in the chain are
// turned into a 500 internal_error response. MetricsMiddleware and
// TracingMiddleware are applied per route inside the mux so that each route
// has a stable label and span name.
//
// # Request ID
//
// RequestIDMiddleware assigns a UUID to each request:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// A caller-supplied X-Request-ID is reused when it is at most 128 printable
// ASCII characters. The ID is stored in the context (GetRequestID) and is
// attached to every log line as request_id.
//
// # CORS
//
// The gateway is usually called straight from browsers by OpenAI client
// libraries, so the default configuration allows every origin.
package middleware
