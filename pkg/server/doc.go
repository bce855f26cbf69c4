// Package server provides the HTTP gateway server.
//
// This package ties the proxy components together (handlers, middleware,
// upstream client, metrics) and manages the server lifecycle.
//
// # Routes
//
//	GET  /                     landing page
//	GET  /health               {"status":"healthy","totalRequests":N,"uptime":S}
//	POST /v1/chat/completions  forwarded to {base_url}/chat/completions
//	GET  /v1/models            forwarded to {base_url}/models
//	GET  /metrics              Prometheus exposition (when enabled)
//
// Each route is wrapped with MetricsMiddleware and, when a tracer is given
// with WithTracer, TracingMiddleware under its pattern, and the
// whole mux with, from outermost to innermost:
//
//	Recovery -> Logging -> RequestID -> CORS -> mux
//
// # Basic Usage
//
//	live := config.NewLive(cfg, path)
//	gateway := stats.New()
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RegisterGateway(gateway)
//
//	srv := server.NewServer(live, gateway, collector, server.WithTracer(tracer))
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until ctx is cancelled and then shuts down gracefully,
// waiting up to ProxyConfig.ShutdownTimeout for in-flight requests. Ready
// is closed once the listener is bound; Addr reports the bound address,
// which is useful with port 0.
//
// # Live settings
//
// The upstream base URL, default credential and default model are read from
// the config.Live on every request, so a hot reload applies to the next
// request. Listen address, timeouts and telemetry are bound at Start.
package server
