package config

import (
	"fmt"
	"strings"

	"mercator-hq/logkeeper/pkg/telemetry/logging"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "retention.short_term_days").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	if _, err := ParseTriggerTime(cfg.TriggerTime); err != nil {
		errs = append(errs, FieldError{Field: "trigger_time", Message: err.Error()})
	}

	errs = append(errs, validateRetention(&cfg.Retention)...)
	errs = append(errs, validatePaths(&cfg.Paths)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(cfg)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateRetention enforces 0 <= short < medium < long.
func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs []FieldError

	if cfg.ShortTermDays < 0 {
		errs = append(errs, FieldError{
			Field:   "retention.short_term_days",
			Message: "must not be negative",
		})
	}
	if cfg.MediumTermDays <= cfg.ShortTermDays {
		errs = append(errs, FieldError{
			Field:   "retention.medium_term_days",
			Message: fmt.Sprintf("must be greater than short_term_days (%d)", cfg.ShortTermDays),
		})
	}
	if cfg.LongTermDays <= cfg.MediumTermDays {
		errs = append(errs, FieldError{
			Field:   "retention.long_term_days",
			Message: fmt.Sprintf("must be greater than medium_term_days (%d)", cfg.MediumTermDays),
		})
	}

	return errs
}

// validatePaths rejects empty paths and tier directories that collide.
func validatePaths(cfg *PathsConfig) []FieldError {
	var errs []FieldError

	fields := []struct {
		name  string
		value string
	}{
		{"paths.active_log", cfg.ActiveLog},
		{"paths.short_term_dir", cfg.ShortTermDir},
		{"paths.medium_term_dir", cfg.MediumTermDir},
		{"paths.long_term_dir", cfg.LongTermDir},
	}

	seen := make(map[string]string)
	resolved := cfg.Resolve()
	resolvedValues := []string{resolved.ActiveLog, resolved.ShortTermDir, resolved.MediumTermDir, resolved.LongTermDir}

	for i, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, FieldError{Field: f.name, Message: "field is required"})
			continue
		}
		if other, ok := seen[resolvedValues[i]]; ok {
			errs = append(errs, FieldError{
				Field:   f.name,
				Message: fmt.Sprintf("must differ from %s", other),
			})
			continue
		}
		seen[resolvedValues[i]] = f.name
	}

	return errs
}

func validateJournal(cfg *JournalConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}

	var errs []FieldError
	if cfg.Driver != "sqlite" && cfg.Driver != "sqlite3" {
		errs = append(errs, FieldError{
			Field:   "journal.driver",
			Message: fmt.Sprintf("must be \"sqlite\" or \"sqlite3\", got %q", cfg.Driver),
		})
	}
	if cfg.Path == "" {
		errs = append(errs, FieldError{Field: "journal.path", Message: "field is required"})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{Field: "journal.busy_timeout", Message: "must not be negative"})
	}
	if cfg.KeepCycles < 0 {
		errs = append(errs, FieldError{Field: "journal.keep_cycles", Message: "must not be negative"})
	}
	return errs
}

func validateTelemetry(cfg *Config) []FieldError {
	var errs []FieldError

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, FieldError{Field: "logging.level", Message: err.Error()})
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("must be \"json\" or \"text\", got %q", cfg.Logging.Format),
		})
	}

	buckets := cfg.Metrics.CycleDurationBuckets
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "metrics.cycle_duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	return errs
}
