package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "logkeeper",
	Short: "Logkeeper - tiered log retention daemon",
	Long: `Logkeeper keeps an application's log file from growing without bound.

Every day at the trigger time it:
  - Rotates the active log into a dated snapshot
  - Archives week-old snapshots into a compressed bundle
  - Promotes month-old bundles to long-term storage
  - Deletes long-term bundles older than a year`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "logkeeper.yaml", "config file path")
}
