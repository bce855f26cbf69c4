package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nimproxy/pkg/cli"
	"nimproxy/pkg/proxy/types"
	"nimproxy/pkg/upstream"
)

var modelsFlags struct {
	apiKey string
	output string
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available upstream",
	Long: `Call the upstream model listing with the configured credential and print it.

The credential is taken from --api-key, or NIM_API_KEY / upstream.api_key
when the flag is not given.

Examples:
  # Print the upstream JSON
  nimproxy models

  # Print a table of model ids
  nimproxy models --output text

  # Use a specific key
  nimproxy models --api-key nvapi-...`,
	RunE: listModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().StringVar(&modelsFlags.apiKey, "api-key", "", "credential to send (overrides the configured default)")
	modelsCmd.Flags().StringVarP(&modelsFlags.output, "output", "o", "json", "output format: json, text")
}

func listModels(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(modelsFlags.output)
	if err != nil {
		return cli.NewCommandError("models", err)
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	apiKey := modelsFlags.apiKey
	if apiKey == "" {
		apiKey = cfg.Upstream.APIKey
	}
	if apiKey == "" {
		return cli.NewConfigError("upstream.api_key", "no API key configured; set NIM_API_KEY or pass --api-key")
	}

	client := upstream.NewClient(upstream.Config{}, upstream.StaticEndpoint(cfg.Upstream.BaseURL))
	defer client.Close()

	resp, err := client.ListModels(commandContext(cmd), apiKey)
	if err != nil {
		return cli.NewCommandError("models", err)
	}

	formatter := cli.NewFormatter(format)
	if format == cli.FormatJSON {
		return formatter.FormatTo(cmd.OutOrStdout(), json.RawMessage(resp.Body))
	}

	var list types.ModelList
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return cli.NewCommandError("models", fmt.Errorf("failed to decode model list: %w", err))
	}
	return formatter.FormatTo(cmd.OutOrStdout(), modelTable(list))
}

func modelTable(list types.ModelList) cli.Table {
	table := cli.Table{Headers: []string{"ID", "OWNED BY", "CREATED"}}
	for _, m := range list.Data {
		created := ""
		if m.Created > 0 {
			created = time.Unix(m.Created, 0).UTC().Format(time.DateOnly)
		}
		table.Rows = append(table.Rows, []string{m.ID, m.OwnedBy, created})
	}
	return table
}
