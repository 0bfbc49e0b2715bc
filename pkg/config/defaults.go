package config

import "time"

// Default values for configuration fields.
const (
	DefaultTriggerTime = "00:00"

	// Retention defaults
	DefaultShortTermDays  = 7
	DefaultMediumTermDays = 30
	DefaultLongTermDays   = 365

	// Path defaults
	DefaultBaseDir       = "."
	DefaultActiveLog     = "dummy_log.txt"
	DefaultShortTermDir  = "logs"
	DefaultMediumTermDir = "medium_term_logs"
	DefaultLongTermDir   = "long_term_logs"

	// Journal defaults
	DefaultJournalEnabled     = true
	DefaultJournalDriver      = "sqlite"
	DefaultJournalPath        = "logkeeper.db"
	DefaultJournalBusyTimeout = 5 * time.Second
	DefaultJournalKeepCycles  = 1000

	// Telemetry defaults
	DefaultMetricsEnabled      = false
	DefaultMetricsNamespace    = "logkeeper"
	DefaultMetricsSubsystem    = "retention"
	DefaultMetricsTextfilePath = "logkeeper.prom"
	DefaultLoggingLevel        = "info"
	DefaultLoggingFormat       = "text"

	DefaultWatchConfig = false
)

// NewDefaultConfig returns a configuration with every field set to its
// default.
func NewDefaultConfig() *Config {
	cfg := seedConfig()
	ApplyDefaults(cfg)
	return cfg
}

// seedConfig returns a configuration holding the defaults whose zero value
// is meaningful. They are set before unmarshalling so that an explicit false
// or 0 in the file survives.
func seedConfig() *Config {
	return &Config{
		Retention: RetentionConfig{
			ShortTermDays:  DefaultShortTermDays,
			MediumTermDays: DefaultMediumTermDays,
			LongTermDays:   DefaultLongTermDays,
		},
		Journal: JournalConfig{
			Enabled:    DefaultJournalEnabled,
			KeepCycles: DefaultJournalKeepCycles,
		},
		Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
	}
}

// ApplyDefaults fills zero-valued fields with defaults. Fields whose zero
// value is meaningful are left alone.
func ApplyDefaults(cfg *Config) {
	if cfg.TriggerTime == "" {
		cfg.TriggerTime = DefaultTriggerTime
	}

	p := &cfg.Paths
	if p.BaseDir == "" {
		p.BaseDir = DefaultBaseDir
	}
	if p.ActiveLog == "" {
		p.ActiveLog = DefaultActiveLog
	}
	if p.ShortTermDir == "" {
		p.ShortTermDir = DefaultShortTermDir
	}
	if p.MediumTermDir == "" {
		p.MediumTermDir = DefaultMediumTermDir
	}
	if p.LongTermDir == "" {
		p.LongTermDir = DefaultLongTermDir
	}

	j := &cfg.Journal
	if j.Driver == "" {
		j.Driver = DefaultJournalDriver
	}
	if j.Path == "" {
		j.Path = DefaultJournalPath
	}
	if j.BusyTimeout == 0 {
		j.BusyTimeout = DefaultJournalBusyTimeout
	}

	m := &cfg.Metrics
	if m.Namespace == "" {
		m.Namespace = DefaultMetricsNamespace
	}
	if m.Subsystem == "" {
		m.Subsystem = DefaultMetricsSubsystem
	}
	if m.TextfilePath == "" {
		m.TextfilePath = DefaultMetricsTextfilePath
	}

	l := &cfg.Logging
	if l.Level == "" {
		l.Level = DefaultLoggingLevel
	}
	if l.Format == "" {
		l.Format = DefaultLoggingFormat
	}
}
