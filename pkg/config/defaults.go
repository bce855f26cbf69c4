package config

import "time"

// Default values used by Defaults and by environment overrides.
const (
	DefaultPort            = "3000"
	DefaultListenAddress   = ":" + DefaultPort
	DefaultUpstreamBaseURL = "https://integrate.api.nvidia.com/v1"
	DefaultModel           = "meta/llama-3.1-8b-instruct"
	DefaultMaxBodyBytes    = 50 * 1024 * 1024
	DefaultMetricsPath     = "/metrics"
	DefaultReportSchedule  = "@every 5m"
	DefaultTracingEndpoint = "localhost:4317"
)

// Defaults returns a configuration with every field set to its default.
// Loading starts from this value, so fields absent from the YAML file keep
// their defaults.
func Defaults() *Config {
	return &Config{
		Proxy: ProxyConfig{
			ListenAddress:   DefaultListenAddress,
			ReadTimeout:     60 * time.Second,
			WriteTimeout:    90 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxHeaderBytes:  1 << 20,
			MaxBodyBytes:    DefaultMaxBodyBytes,
			CORS: CORSConfig{
				Enabled:        true,
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
				ExposedHeaders: []string{"X-Request-ID"},
				MaxAge:         86400,
			},
		},
		Upstream: UpstreamConfig{
			BaseURL:             DefaultUpstreamBaseURL,
			DefaultModel:        DefaultModel,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:         "info",
				Format:        "json",
				RedactSecrets: true,
			},
			Metrics: MetricsConfig{
				Enabled:                true,
				Path:                   DefaultMetricsPath,
				Namespace:              "nimproxy",
				RequestDurationBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			Reporter: ReporterConfig{
				Enabled:  false,
				Schedule: DefaultReportSchedule,
			},
			Tracing: TracingConfig{
				Enabled:     false,
				Sampler:     SamplerRatio,
				SampleRatio: 0.1,
				Endpoint:    DefaultTracingEndpoint,
				Timeout:     10 * time.Second,
				ServiceName: "nimproxy",
			},
		},
	}
}

// ApplyDefaults fills zero-valued fields that have a non-zero default.
// Booleans are left untouched because false is a meaningful setting.
func ApplyDefaults(cfg *Config) {
	d := Defaults()

	if cfg.Proxy.ListenAddress == "" {
		cfg.Proxy.ListenAddress = d.Proxy.ListenAddress
	}
	if cfg.Proxy.ReadTimeout == 0 {
		cfg.Proxy.ReadTimeout = d.Proxy.ReadTimeout
	}
	if cfg.Proxy.WriteTimeout == 0 {
		cfg.Proxy.WriteTimeout = d.Proxy.WriteTimeout
	}
	if cfg.Proxy.IdleTimeout == 0 {
		cfg.Proxy.IdleTimeout = d.Proxy.IdleTimeout
	}
	if cfg.Proxy.ShutdownTimeout == 0 {
		cfg.Proxy.ShutdownTimeout = d.Proxy.ShutdownTimeout
	}
	if cfg.Proxy.MaxHeaderBytes == 0 {
		cfg.Proxy.MaxHeaderBytes = d.Proxy.MaxHeaderBytes
	}
	if cfg.Proxy.MaxBodyBytes == 0 {
		cfg.Proxy.MaxBodyBytes = d.Proxy.MaxBodyBytes
	}
	if len(cfg.Proxy.CORS.AllowedOrigins) == 0 {
		cfg.Proxy.CORS.AllowedOrigins = d.Proxy.CORS.AllowedOrigins
	}
	if len(cfg.Proxy.CORS.AllowedMethods) == 0 {
		cfg.Proxy.CORS.AllowedMethods = d.Proxy.CORS.AllowedMethods
	}
	if len(cfg.Proxy.CORS.AllowedHeaders) == 0 {
		cfg.Proxy.CORS.AllowedHeaders = d.Proxy.CORS.AllowedHeaders
	}
	if len(cfg.Proxy.CORS.ExposedHeaders) == 0 {
		cfg.Proxy.CORS.ExposedHeaders = d.Proxy.CORS.ExposedHeaders
	}

	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = d.Upstream.BaseURL
	}
	if cfg.Upstream.DefaultModel == "" {
		cfg.Upstream.DefaultModel = d.Upstream.DefaultModel
	}
	if cfg.Upstream.MaxIdleConns == 0 {
		cfg.Upstream.MaxIdleConns = d.Upstream.MaxIdleConns
	}
	if cfg.Upstream.MaxIdleConnsPerHost == 0 {
		cfg.Upstream.MaxIdleConnsPerHost = d.Upstream.MaxIdleConnsPerHost
	}
	if cfg.Upstream.IdleConnTimeout == 0 {
		cfg.Upstream.IdleConnTimeout = d.Upstream.IdleConnTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = d.Telemetry.Logging.Level
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = d.Telemetry.Logging.Format
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = d.Telemetry.Metrics.Path
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = d.Telemetry.Metrics.Namespace
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = d.Telemetry.Metrics.RequestDurationBuckets
	}
	if cfg.Telemetry.Reporter.Schedule == "" {
		cfg.Telemetry.Reporter.Schedule = d.Telemetry.Reporter.Schedule
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = d.Telemetry.Tracing.Sampler
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = d.Telemetry.Tracing.Endpoint
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = d.Telemetry.Tracing.Timeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = d.Telemetry.Tracing.ServiceName
	}
}
