package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder receives one observation per completed request.
type RequestRecorder interface {
	RecordRequest(route string, statusCode int, duration time.Duration)
}

// MetricsMiddleware reports the status and latency of every request served
// by next under a fixed route label. A nil recorder disables it.
//
// Example usage:
//
//	mux.Handle("/health", MetricsMiddleware(collector, "/health")(health))
func MetricsMiddleware(recorder RequestRecorder, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newStatusRecorder(w)

			next.ServeHTTP(rw, r)

			recorder.RecordRequest(route, rw.statusCode, time.Since(start))
		})
	}
}
