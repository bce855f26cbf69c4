package handlers

import (
	"log/slog"
	"net/http"

	"nimproxy/pkg/proxy"
)

// HealthHandler serves GET /health. It always reports healthy while the
// process is serving and never contacts the upstream.
type HealthHandler struct {
	stats GatewayStats
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(stats GatewayStats) *HealthHandler {
	return &HealthHandler{stats: stats}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:        "healthy",
		TotalRequests: h.stats.TotalRequests(),
		Uptime:        h.stats.Uptime().Seconds(),
	}

	if err := proxy.WriteJSONResponse(w, http.StatusOK, response); err != nil {
		slog.ErrorContext(r.Context(), "failed to write health response", "error", err)
	}
}
