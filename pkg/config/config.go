package config

import "time"

// Config is the root configuration structure of the gateway.
type Config struct {
	// Proxy contains the inbound HTTP server configuration.
	Proxy ProxyConfig `yaml:"proxy"`

	// Upstream contains the inference API the gateway forwards to.
	Upstream UpstreamConfig `yaml:"upstream"`

	// Telemetry contains logging, metrics and stats reporting configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProxyConfig contains configuration for the inbound HTTP server.
type ProxyConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., ":3000", "127.0.0.1:3000").
	// Default: ":3000" (the PORT environment variable overrides the port)
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 60s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the 60s upstream timeout so that upstream
	// failures can still be reported.
	// Default: 90s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// during graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of request bodies.
	// Default: 52428800 (50MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are added.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins. "*" allows any origin.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for preflight requests.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for preflight requests.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers that are exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for the preflight cache.
	// Default: 86400
	MaxAge int `yaml:"max_age"`
}

// UpstreamConfig describes the inference API requests are forwarded to.
// BaseURL, APIKey and DefaultModel can be changed at runtime by hot reload.
type UpstreamConfig struct {
	// BaseURL is the OpenAI-compatible API root, without a trailing
	// "/chat/completions".
	// Default: "https://integrate.api.nvidia.com/v1"
	BaseURL string `yaml:"base_url"`

	// APIKey is the credential used when a caller sends none.
	// This should typically be loaded from the NIM_API_KEY environment variable.
	// Default: "" (callers must send their own key)
	APIKey string `yaml:"api_key"`

	// DefaultModel is used when a request names no model.
	// Default: "meta/llama-3.1-8b-instruct"
	DefaultModel string `yaml:"default_model"`

	// MaxIdleConns is the maximum number of idle upstream connections.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the maximum number of idle connections per host.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle upstream connection is kept.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Reporter contains the periodic stats log configuration.
	Reporter ReporterConfig `yaml:"reporter"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks API keys and bearer credentials in log attributes.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "nimproxy"
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets defines histogram buckets for request and
	// upstream durations (seconds).
	// Default: [0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// ReporterConfig configures the periodic gateway stats log line.
type ReporterConfig struct {
	// Enabled controls whether the reporter runs.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression (with optional seconds field) or a
	// descriptor such as "@every 5m" or "@hourly".
	// Default: "@every 5m"
	Schedule string `yaml:"schedule"`
}

// TracingConfig contains distributed tracing configuration. Spans are
// exported over OTLP/gRPC.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service name in traces.
	// Default: "nimproxy"
	ServiceName string `yaml:"service_name"`
}

// Tracing sampler strategies.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"
)
