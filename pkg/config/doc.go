// Package config provides configuration management for the gateway.
//
// # Configuration Loading
//
// Configuration is built in layers, later layers overriding earlier ones:
//
//  1. Defaults (Defaults)
//  2. YAML file, if one is found (ResolvePath)
//  3. Environment variables, including those loaded from .env (LoadDotEnv)
//
// Typical startup:
//
//	_ = config.LoadDotEnv()
//	path := config.ResolvePath(flagPath)
//	cfg, err := config.LoadConfigWithEnvOverrides(path)
//
// # Environment Variables
//
//   - PORT: listen port (default 3000)
//   - NIM_BASE_URL: upstream API root (default https://integrate.api.nvidia.com/v1)
//   - NIM_API_KEY: credential used when callers send none
//   - NIM_DEFAULT_MODEL: model used when requests name none
//   - NIMPROXY_CONFIG: configuration file path
//   - NIMPROXY_LISTEN_ADDRESS, NIMPROXY_MAX_BODY_BYTES, NIMPROXY_SHUTDOWN_TIMEOUT
//   - NIMPROXY_LOG_LEVEL, NIMPROXY_LOG_FORMAT
//   - NIMPROXY_METRICS_ENABLED, NIMPROXY_REPORTER_ENABLED, NIMPROXY_REPORTER_SCHEDULE
//
// # Example Configuration
//
//	proxy:
//	  listen_address: ":3000"
//	  write_timeout: "90s"
//	  max_body_bytes: 52428800
//	  cors:
//	    enabled: true
//	    allowed_origins: ["*"]
//
//	upstream:
//	  base_url: "https://integrate.api.nvidia.com/v1"
//	  default_model: "meta/llama-3.1-8b-instruct"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//	  metrics:
//	    enabled: true
//	    path: "/metrics"
//	  reporter:
//	    enabled: true
//	    schedule: "@every 5m"
//
// # Hot Reload
//
// Live holds the active configuration. Watcher reloads it when the file
// changes; the upstream base URL, default credential and default model are
// read from Live on every request. A reload that fails to load or validate
// leaves the previous configuration in place.
package config
