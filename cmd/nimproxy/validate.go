package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration (defaults, YAML file, environment) and validate it.

Every invalid field is reported, not only the first one. The exit status is
2 when the configuration is invalid.

Examples:
  # Validate ./nimproxy.yaml or $NIMPROXY_CONFIG
  nimproxy validate

  # Validate a specific file
  nimproxy validate --config /etc/nimproxy/nimproxy.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path == "" {
		path = "(none)"
	}
	fmt.Fprintln(out, "✓ Configuration valid")
	fmt.Fprintf(out, "  Config file:     %s\n", path)
	fmt.Fprintf(out, "  Listen address:  %s\n", cfg.Proxy.ListenAddress)
	fmt.Fprintf(out, "  Upstream:        %s\n", cfg.Upstream.BaseURL)
	fmt.Fprintf(out, "  Default model:   %s\n", cfg.Upstream.DefaultModel)
	fmt.Fprintf(out, "  Default API key: %s\n", keyStatus(cfg.Upstream.APIKey))
	fmt.Fprintf(out, "  Max body size:   %d bytes\n", cfg.Proxy.MaxBodyBytes)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "  Metrics:         %s\n", cfg.Telemetry.Metrics.Path)
	} else {
		fmt.Fprintln(out, "  Metrics:         disabled")
	}
	if cfg.Telemetry.Reporter.Enabled {
		fmt.Fprintf(out, "  Stats reporter:  %s\n", cfg.Telemetry.Reporter.Schedule)
	}
	if cfg.Telemetry.Tracing.Enabled {
		fmt.Fprintf(out, "  Tracing:         %s (%s)\n", cfg.Telemetry.Tracing.Endpoint, cfg.Telemetry.Tracing.Sampler)
	} else {
		fmt.Fprintln(out, "  Tracing:         disabled")
	}
	return nil
}

func keyStatus(key string) string {
	if key == "" {
		return "not set"
	}
	return "set"
}
