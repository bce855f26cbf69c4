package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Errorf("Validate(Defaults()) error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty listen address",
			mutate:    func(c *Config) { c.Proxy.ListenAddress = "" },
			wantField: "proxy.listen_address",
		},
		{
			name:      "listen address without port",
			mutate:    func(c *Config) { c.Proxy.ListenAddress = "localhost" },
			wantField: "proxy.listen_address",
		},
		{
			name:      "negative write timeout",
			mutate:    func(c *Config) { c.Proxy.WriteTimeout = -1 },
			wantField: "proxy.write_timeout",
		},
		{
			name:      "zero body limit",
			mutate:    func(c *Config) { c.Proxy.MaxBodyBytes = 0 },
			wantField: "proxy.max_body_bytes",
		},
		{
			name:      "relative base URL",
			mutate:    func(c *Config) { c.Upstream.BaseURL = "integrate.api.nvidia.com/v1" },
			wantField: "upstream.base_url",
		},
		{
			name:      "unsupported scheme",
			mutate:    func(c *Config) { c.Upstream.BaseURL = "ftp://example.com/v1" },
			wantField: "upstream.base_url",
		},
		{
			name:      "empty default model",
			mutate:    func(c *Config) { c.Upstream.DefaultModel = "" },
			wantField: "upstream.default_model",
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "bad log format",
			mutate:    func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantField: "telemetry.logging.format",
		},
		{
			name:      "metrics path collides",
			mutate:    func(c *Config) { c.Telemetry.Metrics.Path = "/health" },
			wantField: "telemetry.metrics.path",
		},
		{
			name:      "unsorted buckets",
			mutate:    func(c *Config) { c.Telemetry.Metrics.RequestDurationBuckets = []float64{1, 0.5} },
			wantField: "telemetry.metrics.request_duration_buckets",
		},
		{
			name: "bad reporter schedule",
			mutate: func(c *Config) {
				c.Telemetry.Reporter.Enabled = true
				c.Telemetry.Reporter.Schedule = "every five minutes"
			},
			wantField: "telemetry.reporter.schedule",
		},
		{
			name: "bad tracing sampler",
			mutate: func(c *Config) {
				c.Telemetry.Tracing.Enabled = true
				c.Telemetry.Tracing.Sampler = "sometimes"
			},
			wantField: "telemetry.tracing.sampler",
		},
		{
			name: "tracing ratio out of range",
			mutate: func(c *Config) {
				c.Telemetry.Tracing.Enabled = true
				c.Telemetry.Tracing.SampleRatio = 1.5
			},
			wantField: "telemetry.tracing.sample_ratio",
		},
		{
			name: "tracing without endpoint",
			mutate: func(c *Config) {
				c.Telemetry.Tracing.Enabled = true
				c.Telemetry.Tracing.Endpoint = ""
			},
			wantField: "telemetry.tracing.endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)

			err := Validate(cfg)

			var vErr ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			found := false
			for _, fe := range vErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors = %v, want field %s", vErr.Errors, tt.wantField)
			}
		})
	}
}

func TestValidate_EmptyAPIKeyAllowed(t *testing.T) {
	cfg := Defaults()
	cfg.Upstream.APIKey = ""
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v, empty API key must be allowed", err)
	}
}

func TestValidate_ReporterSchedules(t *testing.T) {
	for _, schedule := range []string{"@every 30s", "@hourly", "*/5 * * * *", "0 */5 * * * *"} {
		cfg := Defaults()
		cfg.Telemetry.Reporter.Enabled = true
		cfg.Telemetry.Reporter.Schedule = schedule
		if err := Validate(cfg); err != nil {
			t.Errorf("Validate(%q) error = %v", schedule, err)
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	one := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if one.Error() != "a: bad" {
		t.Errorf("Error() = %q", one.Error())
	}

	many := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	if !strings.Contains(many.Error(), "2 errors") || !strings.Contains(many.Error(), "b: worse") {
		t.Errorf("Error() = %q", many.Error())
	}
}
