package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nimproxy/pkg/proxy"
	"nimproxy/pkg/proxy/middleware"
	"nimproxy/pkg/proxy/types"
	"nimproxy/pkg/telemetry/tracing"
	"nimproxy/pkg/upstream"

	"go.opentelemetry.io/otel/trace"
)

// ChatHandler serves POST /v1/chat/completions.
type ChatHandler struct {
	normalizer *proxy.Normalizer
	upstream   Upstream
	recorder   UpstreamRecorder
}

// NewChatHandler creates a chat-completion handler. recorder may be nil.
func NewChatHandler(normalizer *proxy.Normalizer, up Upstream, recorder UpstreamRecorder) *ChatHandler {
	return &ChatHandler{
		normalizer: normalizer,
		upstream:   up,
		recorder:   recorder,
	}
}

// ServeHTTP normalizes the request, forwards it and relays the outcome.
//
// The upstream call is detached from the caller's cancellation: once
// forwarded, it runs until it completes or the upstream timeout fires.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if r.Method != http.MethodPost {
		errResp := types.NewInvalidRequestError(
			fmt.Sprintf("Method %s not allowed. Use POST instead.", r.Method),
			"method_not_allowed",
		)
		w.Header().Set("Allow", http.MethodPost)
		if err := proxy.WriteErrorResponse(w, http.StatusMethodNotAllowed, errResp); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	normalized, err := h.normalizer.Normalize(r)
	if err != nil {
		slog.WarnContext(ctx, "rejected chat completion request",
			"request_id", requestID,
			"error", err,
		)
		h.writeError(ctx, w, err)
		return
	}

	tracing.SetChatAttributes(trace.SpanFromContext(ctx),
		normalized.Options.Model,
		normalized.Options.Stream,
		normalized.ReceivedMessages,
		len(normalized.Payload.Messages),
	)

	slog.InfoContext(ctx, "forwarding chat completion",
		"request_id", requestID,
		"trace_id", tracing.TraceID(ctx),
		"model", normalized.Options.Model,
		"stream", normalized.Options.Stream,
		"messages", normalized.ReceivedMessages,
		"forwarded_messages", len(normalized.Payload.Messages),
	)

	start := time.Now()
	resp, err := h.upstream.ChatCompletions(context.WithoutCancel(ctx), normalized.APIKey, normalized.Payload)
	latency := time.Since(start)
	observeUpstream(h.recorder, upstream.ChatCompletionsPath, resp, err, latency)

	if err != nil {
		slog.ErrorContext(ctx, "upstream chat completion failed",
			"request_id", requestID,
			"model", normalized.Options.Model,
			"error", err,
			"upstream_latency_ms", latency.Milliseconds(),
		)
		h.writeError(ctx, w, err)
		return
	}

	slog.InfoContext(ctx, "chat completion relayed",
		"request_id", requestID,
		"model", normalized.Options.Model,
		"bytes", len(resp.Body),
		"upstream_latency_ms", latency.Milliseconds(),
	)

	if err := proxy.RelayResponse(w, resp); err != nil {
		slog.ErrorContext(ctx, "failed to write response",
			"request_id", requestID,
			"error", err,
		)
	}
}

func (h *ChatHandler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, errResp := proxy.HandleError(err)
	if werr := proxy.WriteErrorResponse(w, status, errResp); werr != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", werr)
	}
}
