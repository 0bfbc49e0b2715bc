package main

import (
	"github.com/spf13/cobra"
)

var cycleFlags struct {
	logLevel string
}

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run one retention cycle now",
	Long: `Run rotate, archive, promote and expire once, immediately, and exit.

This is equivalent to "logkeeper run --once" and is suited to invocation from
an external scheduler. The exit status is non-zero if any step failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(commandContext(cmd), runOptions{
			configPath: cfgFile,
			logLevel:   cycleFlags.logLevel,
			once:       true,
			logOutput:  cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(cycleCmd)

	cycleCmd.Flags().StringVar(&cycleFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}
