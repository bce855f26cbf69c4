package upstream

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	// Endpoint is the path that was called (e.g., "/chat/completions").
	Endpoint string

	// StatusCode is the upstream HTTP status code.
	StatusCode int

	// Body is the raw upstream response body.
	Body []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

// TransportError is returned when no usable upstream response was received.
type TransportError struct {
	// Endpoint is the path that was called.
	Endpoint string

	// Cause is the underlying network or read error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return e.Cause.Error()
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the failure was caused by a deadline.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Cause, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(e.Cause, &urlErr) && urlErr.Timeout() {
		return true
	}
	return false
}
