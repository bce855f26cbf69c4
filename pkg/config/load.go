package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized by the gateway.
const (
	EnvPort          = "PORT"
	EnvBaseURL       = "NIM_BASE_URL"
	EnvAPIKey        = "NIM_API_KEY"
	EnvDefaultModel  = "NIM_DEFAULT_MODEL"
	EnvConfigPath    = "NIMPROXY_CONFIG"
	EnvListenAddress = "NIMPROXY_LISTEN_ADDRESS"
	EnvMaxBodyBytes  = "NIMPROXY_MAX_BODY_BYTES"
	EnvLogLevel      = "NIMPROXY_LOG_LEVEL"
	EnvLogFormat     = "NIMPROXY_LOG_FORMAT"
	EnvMetrics       = "NIMPROXY_METRICS_ENABLED"
	EnvReporter      = "NIMPROXY_REPORTER_ENABLED"
	EnvReportSched   = "NIMPROXY_REPORTER_SCHEDULE"
	EnvShutdown      = "NIMPROXY_SHUTDOWN_TIMEOUT"
	EnvTracing       = "NIMPROXY_TRACING_ENABLED"
	EnvOTLPEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// DefaultConfigFile is looked up in the working directory when neither a
// path nor NIMPROXY_CONFIG is given.
const DefaultConfigFile = "nimproxy.yaml"

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the
// process environment. Variables that are already set are not overridden
// and missing files are ignored. With no arguments, ".env" is used.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %q: %w", f, err)
		}
	}

	return nil
}

// ResolvePath returns the configuration file to load. Order: explicit path,
// $NIMPROXY_CONFIG, ./nimproxy.yaml if it exists. An empty result means
// the gateway runs on defaults and environment only.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// LoadConfig loads configuration from a YAML file on top of Defaults.
// An empty path yields the defaults. Environment variables are not applied;
// use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies environment
// variable overrides. Environment variables always take precedence over
// file-based configuration.
//
// The loading sequence is:
//  1. Start from Defaults
//  2. Overlay the YAML file, if any
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Unparseable values are reported rather than ignored.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError

	if val := os.Getenv(EnvPort); val != "" {
		host, _, err := net.SplitHostPort(cfg.Proxy.ListenAddress)
		if err != nil {
			host = ""
		}
		cfg.Proxy.ListenAddress = net.JoinHostPort(host, val)
	}
	if val := os.Getenv(EnvListenAddress); val != "" {
		cfg.Proxy.ListenAddress = val
	}
	if val := os.Getenv(EnvMaxBodyBytes); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Proxy.MaxBodyBytes = n
		} else {
			errs = append(errs, envError(EnvMaxBodyBytes, val))
		}
	}
	if val := os.Getenv(EnvShutdown); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.ShutdownTimeout = d
		} else {
			errs = append(errs, envError(EnvShutdown, val))
		}
	}

	if val := os.Getenv(EnvBaseURL); val != "" {
		cfg.Upstream.BaseURL = val
	}
	if val := os.Getenv(EnvAPIKey); val != "" {
		cfg.Upstream.APIKey = val
	}
	if val := os.Getenv(EnvDefaultModel); val != "" {
		cfg.Upstream.DefaultModel = val
	}

	if val := os.Getenv(EnvLogLevel); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv(EnvLogFormat); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv(EnvMetrics); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		} else {
			errs = append(errs, envError(EnvMetrics, val))
		}
	}
	if val := os.Getenv(EnvReporter); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Reporter.Enabled = b
		} else {
			errs = append(errs, envError(EnvReporter, val))
		}
	}
	if val := os.Getenv(EnvReportSched); val != "" {
		cfg.Telemetry.Reporter.Schedule = val
	}
	if val := os.Getenv(EnvTracing); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		} else {
			errs = append(errs, envError(EnvTracing, val))
		}
	}
	if val := os.Getenv(EnvOTLPEndpoint); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func envError(name, value string) FieldError {
	return FieldError{
		Field:   "env." + name,
		Message: fmt.Sprintf("invalid value %q", value),
	}
}
