package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"mercator-hq/logkeeper/pkg/cli"
	"mercator-hq/logkeeper/pkg/config"
	"mercator-hq/logkeeper/pkg/retention/scheduler"
)

var runFlags struct {
	logLevel string
	once     bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the retention daemon in the foreground",
	Long: `Run the retention daemon with the specified configuration.

The daemon waits for the daily trigger time, runs a retention cycle and waits
again, until it receives SIGINT or SIGTERM. A cycle in progress when the signal
arrives is completed first.

Examples:
  # Start with default config (./logkeeper.yaml, or defaults if absent)
  logkeeper run

  # Start with custom config
  logkeeper run --config /etc/logkeeper/logkeeper.yaml

  # Run one cycle immediately and exit
  logkeeper run --once`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(commandContext(cmd), runOptions{
			configPath: cfgFile,
			logLevel:   runFlags.logLevel,
			once:       runFlags.once,
			logOutput:  cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.once, "once", false, "run a single cycle immediately and exit")
}

type runOptions struct {
	configPath string
	logLevel   string
	once       bool
	logOutput  io.Writer
}

// runDaemon starts the daemon and blocks until ctx is cancelled or, with
// once set, until a single cycle has run.
func runDaemon(ctx context.Context, opts runOptions) error {
	cfg, err := loadConfig(opts.configPath, opts.logLevel)
	if err != nil {
		return err
	}

	logger, err := setupLogging(cfg, opts.logOutput)
	if err != nil {
		return cli.NewConfigError(opts.configPath, err)
	}

	manager := newManager(cfg, logger)
	if err := manager.EnsureLayout(); err != nil {
		return cli.NewCommandError("run", err)
	}

	trigger, err := newTrigger(cfg)
	if err != nil {
		return cli.NewConfigError(opts.configPath, err)
	}

	observers, closeObservers, err := openObservers(cfg)
	defer closeObservers()
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	daemon, err := scheduler.NewDaemon(scheduler.Config{
		Tiers:     manager,
		Trigger:   trigger,
		Logger:    logger,
		Observers: observers,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	ctx, stop := cli.SetupSignalHandler(ctx)
	defer stop()

	logger.Info("logkeeper starting",
		"version", Version,
		"config", opts.configPath,
		"trigger_time", cfg.TriggerTime,
		"short_term_days", cfg.Retention.ShortTermDays,
		"medium_term_days", cfg.Retention.MediumTermDays,
		"long_term_days", cfg.Retention.LongTermDays,
	)

	if opts.once {
		res := daemon.RunCycle(ctx)
		if err := res.Err(); err != nil {
			return cli.NewCommandError("cycle", err)
		}
		return nil
	}

	if cfg.WatchConfig {
		watcher, err := config.NewWatcher(opts.configPath, 0)
		if err != nil {
			logger.Warn("configuration watching disabled", "error", err)
		} else {
			go func() {
				if err := watcher.Watch(ctx, reloadInto(daemon, logger)); err != nil {
					logger.Error("configuration watcher stopped", "error", err)
				}
			}()
		}
	}

	return daemon.Run(ctx)
}

// reloadInto returns a watcher callback that rebuilds the tier manager and
// trigger from a reloaded configuration. Journal, metrics and logging
// settings take effect on restart.
func reloadInto(daemon *scheduler.Daemon, logger *slog.Logger) func(*config.Config) {
	return func(cfg *config.Config) {
		manager := newManager(cfg, logger)
		if err := manager.EnsureLayout(); err != nil {
			logger.Error("reloaded layout is unusable, keeping current configuration", "error", err)
			return
		}
		trigger, err := newTrigger(cfg)
		if err != nil {
			logger.Error("reloaded trigger is invalid, keeping current configuration", "error", err)
			return
		}
		daemon.Reload(manager, trigger)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
