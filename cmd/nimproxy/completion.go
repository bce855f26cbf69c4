package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for nimproxy.

To load completions:

Bash:
  $ source <(nimproxy completion bash)
  # To load permanently:
  $ nimproxy completion bash > /etc/bash_completion.d/nimproxy

Zsh:
  $ nimproxy completion zsh > "${fpath[1]}/_nimproxy"
  $ compinit

Fish:
  $ nimproxy completion fish | source
  # To load permanently:
  $ nimproxy completion fish > ~/.config/fish/completions/nimproxy.fish

PowerShell:
  PS> nimproxy completion powershell | Out-String | Invoke-Expression
  # To load permanently, add to your PowerShell profile
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
