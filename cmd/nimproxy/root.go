package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nimproxy/pkg/cli"
	"nimproxy/pkg/config"
)

var (
	// Global flags
	cfgFile  string
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:   "nimproxy",
	Short: "NIM Proxy - OpenAI-compatible gateway for NVIDIA NIM",
	Long: `NIM Proxy is an OpenAI-compatible chat-completion gateway.

It forwards OpenAI-style requests to NVIDIA NIM (or any OpenAI-compatible
API), providing:
  - Credential pass-through with an optional default key
  - Default model and sampling parameters
  - Markup stripping and whitespace cleanup of message content
  - Normalized error responses
  - Health, landing page and Prometheus metrics endpoints

Configuration is read from defaults, an optional YAML file and the
environment (PORT, NIM_BASE_URL, NIM_API_KEY, NIM_DEFAULT_MODEL), in that
order of precedence.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		fmt.Sprintf("config file path (default $%s or ./%s if present)", config.EnvConfigPath, config.DefaultConfigFile))
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")
}

// loadConfig loads .env files and the configuration with environment
// overrides. It returns the configuration file that was used, if any.
func loadConfig() (*config.Config, string, error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, "", cli.WrapConfigError(err)
	}

	path := config.ResolvePath(cfgFile)
	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, path, cli.WrapConfigError(err)
	}
	return cfg, path, nil
}

// commandContext returns the context a command was executed with.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
