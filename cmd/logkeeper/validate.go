package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/logkeeper/pkg/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration file with environment overrides applied and report
whether it is valid. Nothing on disk is changed.

Examples:
  logkeeper validate --config /etc/logkeeper/logkeeper.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgFile, "")
		if err != nil {
			return err
		}
		if _, err := newTrigger(cfg); err != nil {
			return cli.NewConfigError(cfgFile, err)
		}

		paths := cfg.Paths.Resolve()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "✓ Configuration valid")
		fmt.Fprintf(out, "  trigger time:    %s\n", cfg.TriggerTime)
		fmt.Fprintf(out, "  thresholds:      %d / %d / %d days\n",
			cfg.Retention.ShortTermDays, cfg.Retention.MediumTermDays, cfg.Retention.LongTermDays)
		fmt.Fprintf(out, "  active log:      %s\n", paths.ActiveLog)
		fmt.Fprintf(out, "  short-term dir:  %s\n", paths.ShortTermDir)
		fmt.Fprintf(out, "  medium-term dir: %s\n", paths.MediumTermDir)
		fmt.Fprintf(out, "  long-term dir:   %s\n", paths.LongTermDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
