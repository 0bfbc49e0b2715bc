// Package telemetry groups the daemon's observability packages.
//
// # Components
//
//   - logging: slog logger construction from configuration
//   - metrics: Prometheus retention metrics, exported to a textfile
//   - health: checks of the tier layout, active log and journal
//
// None of them listen on the network. Metrics are written for the
// node_exporter textfile collector and health is reported by the status
// command.
package telemetry
