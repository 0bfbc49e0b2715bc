package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config is the root configuration structure for logkeeper.
// It contains the cycle trigger time, retention thresholds, tier paths and
// the ambient journal, metrics and logging settings.
type Config struct {
	// TriggerTime is the local wall-clock time at which the daily cycle runs.
	// Format: "HH:MM" (24-hour).
	// Default: "00:00"
	TriggerTime string `yaml:"trigger_time"`

	// Retention contains the age thresholds, in days, that drive the tier
	// transitions.
	Retention RetentionConfig `yaml:"retention"`

	// Paths locates the active log and the three tier directories.
	Paths PathsConfig `yaml:"paths"`

	// Journal contains configuration for the SQLite cycle journal.
	Journal JournalConfig `yaml:"journal"`

	// Metrics contains configuration for the Prometheus textfile export.
	Metrics MetricsConfig `yaml:"metrics"`

	// Logging contains configuration for structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// WatchConfig reloads the configuration file when it changes.
	// Default: false
	WatchConfig bool `yaml:"watch_config"`
}

// RetentionConfig contains the retention thresholds.
// They must satisfy 0 <= short_term_days < medium_term_days < long_term_days.
type RetentionConfig struct {
	// ShortTermDays is the age past which a snapshot is archived.
	// Default: 7
	ShortTermDays int `yaml:"short_term_days"`

	// MediumTermDays is the age past which a bundle is promoted to long-term.
	// Default: 30
	MediumTermDays int `yaml:"medium_term_days"`

	// LongTermDays is the age past which a long-term bundle is deleted.
	// Default: 365
	LongTermDays int `yaml:"long_term_days"`
}

// PathsConfig locates the files the daemon manages. Relative paths are
// resolved against BaseDir.
type PathsConfig struct {
	// BaseDir is the root of the layout.
	// Default: "."
	BaseDir string `yaml:"base_dir"`

	// ActiveLog is the file the monitored application appends to.
	// Default: "dummy_log.txt"
	ActiveLog string `yaml:"active_log"`

	// ShortTermDir holds daily snapshots.
	// Default: "logs"
	ShortTermDir string `yaml:"short_term_dir"`

	// MediumTermDir holds compressed bundles.
	// Default: "medium_term_logs"
	MediumTermDir string `yaml:"medium_term_dir"`

	// LongTermDir holds promoted bundles until they expire.
	// Default: "long_term_logs"
	LongTermDir string `yaml:"long_term_dir"`
}

// Resolve returns p with its relative path fields joined to BaseDir.
func (p PathsConfig) Resolve() PathsConfig {
	join := func(name string) string {
		if name == "" || filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(p.BaseDir, name)
	}
	return PathsConfig{
		BaseDir:       p.BaseDir,
		ActiveLog:     join(p.ActiveLog),
		ShortTermDir:  join(p.ShortTermDir),
		MediumTermDir: join(p.MediumTermDir),
		LongTermDir:   join(p.LongTermDir),
	}
}

// ResolvePath joins a relative name to paths.base_dir. Absolute names are
// returned unchanged.
func (c *Config) ResolvePath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.BaseDir, name)
}

// JournalConfig contains configuration for the cycle journal.
type JournalConfig struct {
	// Enabled records every cycle in the journal database.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Driver selects the SQLite driver: "sqlite" (pure Go) or "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file path, relative to paths.base_dir.
	// Default: "logkeeper.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// KeepCycles bounds the journal to the most recent cycles. 0 keeps all.
	// Default: 1000
	KeepCycles int `yaml:"keep_cycles"`
}

// MetricsConfig contains configuration for retention metrics.
type MetricsConfig struct {
	// Enabled turns on metric collection.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metric namespace.
	// Default: "logkeeper"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	// Default: "retention"
	Subsystem string `yaml:"subsystem"`

	// TextfilePath is where metrics are written after each cycle, for the
	// node_exporter textfile collector. Empty disables the export.
	// Default: "logkeeper.prom"
	TextfilePath string `yaml:"textfile_path"`

	// CycleDurationBuckets are the histogram buckets for cycle durations,
	// in seconds.
	CycleDurationBuckets []float64 `yaml:"cycle_duration_buckets"`
}

// LoggingConfig contains configuration for structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// TriggerTime is a parsed "HH:MM" wall-clock time.
type TriggerTime struct {
	Hour   int
	Minute int
}

// ParseTriggerTime parses an "HH:MM" string. Single-digit hours are
// accepted ("0:00").
func ParseTriggerTime(s string) (TriggerTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 || hh == "" || len(hh) > 2 {
		return TriggerTime{}, fmt.Errorf("trigger time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return TriggerTime{}, fmt.Errorf("trigger time %q: hour must be 0-23", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return TriggerTime{}, fmt.Errorf("trigger time %q: minute must be 0-59", s)
	}
	return TriggerTime{Hour: hour, Minute: minute}, nil
}

// String returns t as "HH:MM".
func (t TriggerTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// CronSpec returns the standard cron expression firing daily at t.
func (t TriggerTime) CronSpec() string {
	return fmt.Sprintf("%d %d * * *", t.Minute, t.Hour)
}
