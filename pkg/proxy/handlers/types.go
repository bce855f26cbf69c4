package handlers

import (
	"context"
	"time"

	"nimproxy/pkg/upstream"
)

// Upstream is the outbound side used by the handlers.
type Upstream interface {
	ChatCompletions(ctx context.Context, apiKey string, payload interface{}) (*upstream.Response, error)
	ListModels(ctx context.Context, apiKey string) (*upstream.Response, error)
	BaseURL() string
}

// UpstreamRecorder receives one observation per upstream call.
// statusCode is 0 when no response was received.
type UpstreamRecorder interface {
	RecordUpstreamCall(endpoint string, statusCode int, duration time.Duration)
	RecordUpstreamError(endpoint, errorType string)
}

// GatewayStats exposes the process-wide counters shown by /health and /.
type GatewayStats interface {
	TotalRequests() int64
	Uptime() time.Duration
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string  `json:"status"`
	TotalRequests int64   `json:"totalRequests"`
	Uptime        float64 `json:"uptime"`
}
