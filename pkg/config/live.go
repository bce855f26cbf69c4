package config

import (
	"fmt"
	"sync"
)

// Live holds the active configuration and lets it be replaced while the
// gateway is serving. The upstream-facing accessors (BaseURL,
// DefaultAPIKey, DefaultModel) are read on every request, so a reload
// takes effect for the next request without a restart. Settings that are
// bound at startup (listen address, timeouts, telemetry) only change on
// restart.
//
// Live is safe for concurrent use.
type Live struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

// NewLive wraps an already loaded configuration. path is the file Reload
// reads; it may be empty when no file was used.
func NewLive(cfg *Config, path string) *Live {
	return &Live{cfg: cfg, path: path}
}

// Get returns the current configuration. Callers must not modify it.
func (l *Live) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Set replaces the current configuration.
func (l *Live) Set(cfg *Config) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg = cfg
}

// Path returns the configuration file backing this value.
func (l *Live) Path() string {
	return l.path
}

// Reload re-reads the configuration file with environment overrides. The
// current configuration is kept if loading or validation fails.
func (l *Live) Reload() error {
	cfg, err := LoadConfigWithEnvOverrides(l.path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	l.Set(cfg)
	return nil
}

// BaseURL returns the upstream API root.
func (l *Live) BaseURL() string {
	return l.Get().Upstream.BaseURL
}

// DefaultAPIKey returns the credential used when a caller sends none.
func (l *Live) DefaultAPIKey() string {
	return l.Get().Upstream.APIKey
}

// DefaultModel returns the model used when a request names none.
func (l *Live) DefaultModel() string {
	return l.Get().Upstream.DefaultModel
}
