// Package server provides the HTTP gateway server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"nimproxy/pkg/config"
	"nimproxy/pkg/proxy"
	"nimproxy/pkg/proxy/handlers"
	"nimproxy/pkg/proxy/middleware"
	"nimproxy/pkg/stats"
	"nimproxy/pkg/telemetry/metrics"
	"nimproxy/pkg/telemetry/tracing"
	"nimproxy/pkg/upstream"

	"go.opentelemetry.io/otel/trace"
)

// Route patterns served by the gateway.
const (
	RouteLanding         = "/"
	RouteHealth          = "/health"
	RouteChatCompletions = "/v1/chat/completions"
	RouteModels          = "/v1/models"
)

// Server is the HTTP gateway server.
type Server struct {
	config     config.ProxyConfig
	live       *config.Live
	gateway    *stats.Gateway
	upstream   *upstream.Client
	collector  *metrics.Collector
	tracer     trace.Tracer
	httpServer *http.Server

	ready        chan struct{}
	addr         net.Addr
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Option configures a Server.
type Option func(*Server)

// WithTracer enables a server span per request and a client span per
// upstream call. A nil or disabled tracer leaves tracing off.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Server) {
		if t != nil && t.Enabled() {
			s.tracer = t.Tracer()
		}
	}
}

// NewServer creates a gateway server. Proxy settings are read from live
// once; upstream base URL, default credential and default model are read
// from live on every request. collector may be nil.
func NewServer(live *config.Live, gateway *stats.Gateway, collector *metrics.Collector, opts ...Option) *Server {
	cfg := live.Get()

	s := &Server{
		config:    cfg.Proxy,
		live:      live,
		gateway:   gateway,
		collector: collector,
		ready:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.upstream = upstream.NewClient(upstream.Config{
		Timeout:             upstream.DefaultTimeout,
		MaxIdleConns:        cfg.Upstream.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Upstream.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Upstream.IdleConnTimeout,
		Tracer:              s.tracer,
	}, live)

	return s
}

// Start listens on the configured address and serves until ctx is
// cancelled or the listener fails, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}
	s.addr = ln.Addr()
	s.isRunning = true
	close(s.ready)
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server",
			"address", ln.Addr().String(),
			"upstream", s.upstream.BaseURL(),
		)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}
		if err := s.upstream.Close(); err != nil {
			slog.Warn("error closing upstream client", "error", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("gateway server stopped", "total_requests", s.gateway.TotalRequests())
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// A nil *metrics.Collector must not become a non-nil interface.
	var (
		requestRecorder  middleware.RequestRecorder
		upstreamRecorder handlers.UpstreamRecorder
	)
	if s.collector != nil {
		requestRecorder = s.collector
		upstreamRecorder = s.collector
	}

	normalizer := proxy.NewNormalizer(s.live, s.gateway, s.config.MaxBodyBytes)

	routes := map[string]http.Handler{
		RouteLanding:         handlers.NewLandingHandler(s.gateway, s.live),
		RouteHealth:          handlers.NewHealthHandler(s.gateway),
		RouteChatCompletions: handlers.NewChatHandler(normalizer, s.upstream, upstreamRecorder),
		RouteModels:          handlers.NewModelsHandler(s.live, s.upstream, upstreamRecorder),
	}
	for pattern, h := range routes {
		h = middleware.TracingMiddleware(s.tracer, pattern)(h)
		mux.Handle(pattern, middleware.MetricsMiddleware(requestRecorder, pattern)(h))
	}

	if s.collector != nil && s.collector.Enabled() {
		path := s.collector.Path()
		mux.Handle(path, middleware.MetricsMiddleware(requestRecorder, path)(s.collector.Handler()))
	}

	var handler http.Handler = mux

	handler = middleware.CORSMiddleware(s.corsConfig())(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)

	// Recovery middleware (outermost)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// corsConfig converts config.CORSConfig to middleware.CORSConfig.
func (s *Server) corsConfig() middleware.CORSConfig {
	return middleware.CORSConfig{
		Enabled:        s.config.CORS.Enabled,
		AllowedOrigins: s.config.CORS.AllowedOrigins,
		AllowedMethods: s.config.CORS.AllowedMethods,
		AllowedHeaders: s.config.CORS.AllowedHeaders,
		ExposedHeaders: s.config.CORS.ExposedHeaders,
		MaxAge:         s.config.CORS.MaxAge,
	}
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
