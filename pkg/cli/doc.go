/*
Package cli provides command-line interface utilities for logkeeper.

The cli package includes output formatting, typed command errors and signal
handling used by the logkeeper command.

Output Formatting:

The status command prints either an aligned table or JSON:

	table := &cli.Table{Headers: []string{"TIER", "NAME", "AGE"}}
	table.AddRow("short_term", "log_06_15_2024.txt", "0")
	table.WriteTo(os.Stdout)

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	// ctx is cancelled on SIGINT or SIGTERM
*/
package cli
