package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logkeeper.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
trigger_time: "02:30"
retention:
  short_term_days: 3
  medium_term_days: 14
  long_term_days: 90
paths:
  base_dir: "/srv/app"
  active_log: "app.log"
journal:
  enabled: false
logging:
  level: "debug"
  format: "json"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.TriggerTime != "02:30" {
		t.Errorf("expected trigger time %q, got %q", "02:30", cfg.TriggerTime)
	}
	if cfg.Retention != (RetentionConfig{ShortTermDays: 3, MediumTermDays: 14, LongTermDays: 90}) {
		t.Errorf("unexpected retention: %+v", cfg.Retention)
	}
	if cfg.Paths.ActiveLog != "app.log" {
		t.Errorf("expected active log %q, got %q", "app.log", cfg.Paths.ActiveLog)
	}
	// Unset paths fall back to defaults.
	if cfg.Paths.ShortTermDir != DefaultShortTermDir {
		t.Errorf("expected short-term dir %q, got %q", DefaultShortTermDir, cfg.Paths.ShortTermDir)
	}
	if cfg.Journal.Enabled {
		t.Error("expected journal to be disabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Logging.Level)
	}

	resolved := cfg.Paths.Resolve()
	if resolved.ActiveLog != filepath.Join("/srv/app", "app.log") {
		t.Errorf("resolved active log = %q", resolved.ActiveLog)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	want := NewDefaultConfig()
	if cfg.TriggerTime != want.TriggerTime || cfg.Retention != want.Retention || cfg.Paths != want.Paths {
		t.Errorf("config = %+v, want defaults %+v", cfg, want)
	}
	if !cfg.Journal.Enabled {
		t.Error("journal should be enabled by default")
	}
	if cfg.Retention.ShortTermDays != 7 || cfg.Retention.MediumTermDays != 30 || cfg.Retention.LongTermDays != 365 {
		t.Errorf("unexpected default thresholds: %+v", cfg.Retention)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "retention: [not, a, map")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
trigger_time: "25:00"
retention:
  short_term_days: 30
  medium_term_days: 30
  long_term_days: 365
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(verr.Errors), verr)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
trigger_time: "01:00"
paths:
  base_dir: "/from/file"
`)

	t.Setenv("LOGKEEPER_TRIGGER_TIME", "03:15")
	t.Setenv("LOGKEEPER_RETENTION_SHORT_TERM_DAYS", "2")
	t.Setenv("LOGKEEPER_PATHS_BASE_DIR", "/from/env")
	t.Setenv("LOGKEEPER_JOURNAL_ENABLED", "false")
	t.Setenv("LOGKEEPER_JOURNAL_BUSY_TIMEOUT", "2s")
	t.Setenv("LOGKEEPER_METRICS_ENABLED", "not-a-bool")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.TriggerTime != "03:15" {
		t.Errorf("trigger time = %q, want 03:15", cfg.TriggerTime)
	}
	if cfg.Retention.ShortTermDays != 2 {
		t.Errorf("short_term_days = %d, want 2", cfg.Retention.ShortTermDays)
	}
	if cfg.Paths.BaseDir != "/from/env" {
		t.Errorf("base_dir = %q, want /from/env", cfg.Paths.BaseDir)
	}
	if cfg.Journal.Enabled {
		t.Error("journal should be disabled by environment")
	}
	if cfg.Journal.BusyTimeout != 2*time.Second {
		t.Errorf("busy_timeout = %v, want 2s", cfg.Journal.BusyTimeout)
	}
	if cfg.Metrics.Enabled {
		t.Error("unparseable override should be ignored")
	}
}

func TestLoadConfigWithEnvOverrides_RevalidatesOverrides(t *testing.T) {
	t.Setenv("LOGKEEPER_RETENTION_MEDIUM_TERM_DAYS", "400")

	_, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "retention.long_term_days") {
		t.Errorf("expected long_term_days validation error, got %v", err)
	}
}

func TestLoadConfig_ExplicitZeroKeepCycles(t *testing.T) {
	path := writeConfig(t, `
journal:
  keep_cycles: 0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Journal.KeepCycles != 0 {
		t.Errorf("keep_cycles = %d, want 0", cfg.Journal.KeepCycles)
	}
	if !cfg.Journal.Enabled {
		t.Error("journal.enabled should keep its default")
	}
}

func TestLoadConfig_PartialRetentionKeepsDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    RetentionConfig
	}{
		{
			name:    "medium only",
			content: "retention:\n  medium_term_days: 60\n",
			want:    RetentionConfig{ShortTermDays: 7, MediumTermDays: 60, LongTermDays: 365},
		},
		{
			name:    "long only",
			content: "retention:\n  long_term_days: 500\n",
			want:    RetentionConfig{ShortTermDays: 7, MediumTermDays: 30, LongTermDays: 500},
		},
		{
			name:    "explicit zero short",
			content: "retention:\n  short_term_days: 0\n",
			want:    RetentionConfig{ShortTermDays: 0, MediumTermDays: 30, LongTermDays: 365},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.content))
			if err != nil {
				t.Fatalf("LoadConfig() failed: %v", err)
			}
			if cfg.Retention != tt.want {
				t.Errorf("retention = %+v, want %+v", cfg.Retention, tt.want)
			}
		})
	}
}
