/*
Package cli provides command-line helpers used by the nimproxy command.

Output Formatting:

Command results are written as text or JSON. A Table renders as aligned
columns in text mode and as an array of objects in JSON mode:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, cli.Table{...}); err != nil {
		return err
	}

Errors:

ConfigError and CommandError classify failures; ExitCode maps them to the
process exit status.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
