// Package metrics provides Prometheus metrics for the retention daemon.
//
// The daemon has no network interface, so metrics are not served over HTTP.
// Instead the collector rewrites a file in the Prometheus text format after
// every cycle, suitable for node_exporter's textfile collector:
//
//	collector := metrics.NewCollector(&cfg.Metrics, nil)
//	daemon, _ := scheduler.NewDaemon(scheduler.Config{
//	    // ...
//	    Observers: []scheduler.Observer{collector},
//	})
//
// # Metrics
//
//   - logkeeper_retention_files_total{op}
//   - logkeeper_retention_skipped_entries_total{op}
//   - logkeeper_retention_step_errors_total{op}
//   - logkeeper_retention_rotated_bytes_total
//   - logkeeper_retention_cycle_duration_seconds
//   - logkeeper_retention_cycles_total{status}
//   - logkeeper_retention_last_cycle_timestamp_seconds
//   - logkeeper_retention_last_cycle_success
package metrics
