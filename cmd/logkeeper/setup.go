package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"mercator-hq/logkeeper/pkg/cli"
	"mercator-hq/logkeeper/pkg/config"
	"mercator-hq/logkeeper/pkg/retention/journal"
	"mercator-hq/logkeeper/pkg/retention/policy"
	"mercator-hq/logkeeper/pkg/retention/scheduler"
	"mercator-hq/logkeeper/pkg/retention/tier"
	"mercator-hq/logkeeper/pkg/telemetry/logging"
	"mercator-hq/logkeeper/pkg/telemetry/metrics"
)

// loadConfig loads the configuration file with environment overrides and
// applies a --log-level override.
func loadConfig(path, logLevel string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, cli.NewConfigError(path, err)
	}

	if logLevel != "" {
		if _, err := logging.ParseLevel(logLevel); err != nil {
			return nil, cli.NewConfigError(path, err)
		}
		cfg.Logging.Level = logLevel
	}

	return cfg, nil
}

// setupLogging builds the logger described by cfg and installs it as the
// slog default.
func setupLogging(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Writer:    w,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

func thresholds(cfg *config.Config) policy.Thresholds {
	return policy.Thresholds{
		ShortTermDays:  cfg.Retention.ShortTermDays,
		MediumTermDays: cfg.Retention.MediumTermDays,
		LongTermDays:   cfg.Retention.LongTermDays,
	}
}

func newManager(cfg *config.Config, logger *slog.Logger) *tier.Manager {
	paths := cfg.Paths.Resolve()
	return tier.NewManager(tier.Config{
		Layout: tier.Layout{
			ActiveLog:     paths.ActiveLog,
			ShortTermDir:  paths.ShortTermDir,
			MediumTermDir: paths.MediumTermDir,
			LongTermDir:   paths.LongTermDir,
		},
		Thresholds: thresholds(cfg),
		Logger:     logger,
	})
}

func newTrigger(cfg *config.Config) (*scheduler.Trigger, error) {
	tt, err := config.ParseTriggerTime(cfg.TriggerTime)
	if err != nil {
		return nil, err
	}
	return scheduler.NewTrigger(tt.CronSpec())
}

func openJournal(cfg *config.Config) (*journal.Store, error) {
	return journal.NewStore(&journal.Config{
		Driver:      cfg.Journal.Driver,
		Path:        cfg.ResolvePath(cfg.Journal.Path),
		BusyTimeout: cfg.Journal.BusyTimeout,
		KeepCycles:  cfg.Journal.KeepCycles,
	})
}

// openObservers creates the cycle observers enabled in cfg. The returned
// function closes them.
func openObservers(cfg *config.Config) ([]scheduler.Observer, func(), error) {
	var (
		observers []scheduler.Observer
		closers   []io.Closer
	)
	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				slog.Default().Warn("failed to close observer", "error", err)
			}
		}
	}

	if cfg.Journal.Enabled {
		store, err := openJournal(cfg)
		if err != nil {
			return nil, closeAll, fmt.Errorf("failed to open journal: %w", err)
		}
		observers = append(observers, store)
		closers = append(closers, store)
	}

	if cfg.Metrics.Enabled {
		mcfg := cfg.Metrics
		mcfg.TextfilePath = cfg.ResolvePath(mcfg.TextfilePath)
		observers = append(observers, metrics.NewCollector(&mcfg, nil))
	}

	return observers, closeAll, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
