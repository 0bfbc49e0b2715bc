// Package config provides configuration management for logkeeper.
//
// This package handles loading, validating, and watching configuration from
// a YAML file with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("logkeeper.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("logkeeper.yaml")
//
// A missing file is not an error. The daemon needs no arguments and runs on
// the defaults, which reproduce the classic layout in the working
// directory.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention LOGKEEPER_SECTION_FIELD.
// For example:
//
//   - LOGKEEPER_TRIGGER_TIME overrides trigger_time
//   - LOGKEEPER_RETENTION_SHORT_TERM_DAYS overrides retention.short_term_days
//   - LOGKEEPER_PATHS_BASE_DIR overrides paths.base_dir
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// Validation errors include field paths:
//
//	configuration validation failed with 2 errors:
//	  - trigger_time: trigger time "25:00": hour must be 0-23
//	  - retention.medium_term_days: must be greater than short_term_days (7)
//
// # Example Configuration
//
//	trigger_time: "00:00"
//	retention:
//	  short_term_days: 7
//	  medium_term_days: 30
//	  long_term_days: 365
//	paths:
//	  base_dir: "/var/log/myapp"
//	  active_log: "app.log"
//
// # Reloading
//
// Watcher follows the file with fsnotify and hands each successfully
// validated revision to a callback. Invalid revisions are logged and
// ignored.
package config
