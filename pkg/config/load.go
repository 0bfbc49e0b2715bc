package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "LOGKEEPER_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// A missing file is not an error: the daemon runs on defaults alone.
// The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention LOGKEEPER_SECTION_FIELD (e.g., LOGKEEPER_RETENTION_SHORT_TERM_DAYS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(path string) (*Config, error) {
	cfg := seedConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Default().Debug("configuration file not found, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Values that fail to parse are ignored.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("LOGKEEPER_TRIGGER_TIME"); val != "" {
		cfg.TriggerTime = val
	}

	// Retention overrides
	envInt("LOGKEEPER_RETENTION_SHORT_TERM_DAYS", &cfg.Retention.ShortTermDays)
	envInt("LOGKEEPER_RETENTION_MEDIUM_TERM_DAYS", &cfg.Retention.MediumTermDays)
	envInt("LOGKEEPER_RETENTION_LONG_TERM_DAYS", &cfg.Retention.LongTermDays)

	// Path overrides
	envString("LOGKEEPER_PATHS_BASE_DIR", &cfg.Paths.BaseDir)
	envString("LOGKEEPER_PATHS_ACTIVE_LOG", &cfg.Paths.ActiveLog)
	envString("LOGKEEPER_PATHS_SHORT_TERM_DIR", &cfg.Paths.ShortTermDir)
	envString("LOGKEEPER_PATHS_MEDIUM_TERM_DIR", &cfg.Paths.MediumTermDir)
	envString("LOGKEEPER_PATHS_LONG_TERM_DIR", &cfg.Paths.LongTermDir)

	// Journal overrides
	envBool("LOGKEEPER_JOURNAL_ENABLED", &cfg.Journal.Enabled)
	envString("LOGKEEPER_JOURNAL_DRIVER", &cfg.Journal.Driver)
	envString("LOGKEEPER_JOURNAL_PATH", &cfg.Journal.Path)
	if val := os.Getenv("LOGKEEPER_JOURNAL_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Journal.BusyTimeout = d
		}
	}
	envInt("LOGKEEPER_JOURNAL_KEEP_CYCLES", &cfg.Journal.KeepCycles)

	// Telemetry overrides
	envBool("LOGKEEPER_METRICS_ENABLED", &cfg.Metrics.Enabled)
	envString("LOGKEEPER_METRICS_TEXTFILE_PATH", &cfg.Metrics.TextfilePath)
	envString("LOGKEEPER_LOGGING_LEVEL", &cfg.Logging.Level)
	envString("LOGKEEPER_LOGGING_FORMAT", &cfg.Logging.Format)

	envBool("LOGKEEPER_WATCH_CONFIG", &cfg.WatchConfig)
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}
