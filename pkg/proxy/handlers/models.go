package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nimproxy/pkg/proxy"
	"nimproxy/pkg/proxy/middleware"
	"nimproxy/pkg/proxy/types"
	"nimproxy/pkg/upstream"
)

// ModelsHandler serves GET /v1/models by relaying the upstream listing.
// It does not touch the gateway request counter.
type ModelsHandler struct {
	settings proxy.Settings
	upstream Upstream
	recorder UpstreamRecorder
}

// NewModelsHandler creates a model-listing handler. recorder may be nil.
func NewModelsHandler(settings proxy.Settings, up Upstream, recorder UpstreamRecorder) *ModelsHandler {
	return &ModelsHandler{
		settings: settings,
		upstream: up,
		recorder: recorder,
	}
}

// ServeHTTP relays the upstream model list. A missing credential is not
// rejected locally, and every failure is reported as the same 500 body.
func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	apiKey := proxy.ResolveAPIKey(r, h.settings.DefaultAPIKey())

	start := time.Now()
	resp, err := h.upstream.ListModels(context.WithoutCancel(ctx), apiKey)
	latency := time.Since(start)
	observeUpstream(h.recorder, upstream.ModelsPath, resp, err, latency)

	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch models",
			"request_id", requestID,
			"error", err,
			"upstream_latency_ms", latency.Milliseconds(),
		)
		if werr := proxy.WriteErrorResponse(w, http.StatusInternalServerError, types.NewModelsError()); werr != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", werr)
		}
		return
	}

	if err := proxy.RelayResponse(w, resp); err != nil {
		slog.ErrorContext(ctx, "failed to write response",
			"request_id", requestID,
			"error", err,
		)
	}
}
