package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"nimproxy/pkg/proxy"
)

//go:embed templates/landing.html
var landingSource string

var landingTemplate = template.Must(template.New("landing").Funcs(template.FuncMap{
	"thousands": thousands,
}).Parse(landingSource))

// landingData is rendered into the landing page.
type landingData struct {
	Status        string
	TotalRequests int64
	DefaultModel  string
	BaseURL       string
}

// LandingHandler serves the human-readable status page on GET /.
type LandingHandler struct {
	stats    GatewayStats
	settings proxy.Settings
}

// NewLandingHandler creates a landing page handler.
func NewLandingHandler(stats GatewayStats, settings proxy.Settings) *LandingHandler {
	return &LandingHandler{stats: stats, settings: settings}
}

// ServeHTTP renders the landing page. Paths other than "/" are not found.
func (h *LandingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	model := h.settings.DefaultModel()
	if model == "" {
		model = proxy.DefaultModel
	}

	data := landingData{
		Status:        "Online",
		TotalRequests: h.stats.TotalRequests(),
		DefaultModel:  model,
		BaseURL:       PublicBaseURL(r),
	}

	var buf bytes.Buffer
	if err := landingTemplate.Execute(&buf, data); err != nil {
		slog.ErrorContext(r.Context(), "failed to render landing page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// PublicBaseURL is the OpenAI base URL callers should configure, built from
// the scheme and Host the request arrived with.
func PublicBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/v1"
}

// thousands formats n with comma digit grouping.
func thousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}

	var b []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b = append(b, ',')
		}
		b = append(b, s[i])
	}

	if neg {
		return "-" + string(b)
	}
	return string(b)
}
