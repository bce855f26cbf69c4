package handlers

import (
	"errors"
	"net/http"
	"time"

	"nimproxy/pkg/upstream"
)

// Upstream error categories reported to the recorder.
const (
	upstreamErrorStatus    = "status"
	upstreamErrorTimeout   = "timeout"
	upstreamErrorTransport = "transport"
)

// observeUpstream reports the outcome of one upstream call.
func observeUpstream(rec UpstreamRecorder, endpoint string, resp *upstream.Response, err error, d time.Duration) {
	if rec == nil {
		return
	}

	if err == nil {
		status := http.StatusOK
		if resp != nil {
			status = resp.StatusCode
		}
		rec.RecordUpstreamCall(endpoint, status, d)
		return
	}

	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		rec.RecordUpstreamCall(endpoint, statusErr.StatusCode, d)
		rec.RecordUpstreamError(endpoint, upstreamErrorStatus)
		return
	}

	rec.RecordUpstreamCall(endpoint, 0, d)
	var transportErr *upstream.TransportError
	if errors.As(err, &transportErr) && transportErr.Timeout() {
		rec.RecordUpstreamError(endpoint, upstreamErrorTimeout)
		return
	}
	rec.RecordUpstreamError(endpoint, upstreamErrorTransport)
}
