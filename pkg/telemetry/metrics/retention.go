package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/logkeeper/pkg/config"
)

// RetentionMetrics tracks what each retention cycle did.
//
// Metrics:
//   - logkeeper_retention_files_total: Files rotated, archived, promoted or expired, by op
//   - logkeeper_retention_skipped_entries_total: Foreign entries skipped, by op
//   - logkeeper_retention_step_errors_total: Failed cycle steps, by op
//   - logkeeper_retention_rotated_bytes_total: Bytes copied out of the active log
//   - logkeeper_retention_cycle_duration_seconds: Cycle duration histogram
//   - logkeeper_retention_cycles_total: Completed cycles, by status
//   - logkeeper_retention_last_cycle_timestamp_seconds: Finish time of the last cycle
//   - logkeeper_retention_last_cycle_success: 1 if the last cycle had no failed step
type RetentionMetrics struct {
	filesTotal      *prometheus.CounterVec
	skippedTotal    *prometheus.CounterVec
	stepErrorsTotal *prometheus.CounterVec
	rotatedBytes    prometheus.Counter
	cycleDuration   prometheus.Histogram
	cyclesTotal     *prometheus.CounterVec
	lastCycleTime   prometheus.Gauge
	lastCycleOK     prometheus.Gauge
}

// NewRetentionMetrics creates and registers retention metrics with the
// provided registry.
func NewRetentionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RetentionMetrics {
	rm := &RetentionMetrics{
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_total",
				Help:      "Total number of files affected by retention steps",
			},
			[]string{"op"},
		),

		skippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "skipped_entries_total",
				Help:      "Total number of unrecognized tier entries skipped",
			},
			[]string{"op"},
		),

		stepErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "step_errors_total",
				Help:      "Total number of failed retention steps",
			},
			[]string{"op"},
		),

		rotatedBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rotated_bytes_total",
				Help:      "Total bytes copied from the active log into snapshots",
			},
		),

		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cycle_duration_seconds",
				Help:      "Duration of retention cycles in seconds",
				Buckets:   cfg.CycleDurationBuckets,
			},
		),

		cyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cycles_total",
				Help:      "Total number of completed retention cycles",
			},
			[]string{"status"},
		),

		lastCycleTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_cycle_timestamp_seconds",
				Help:      "Unix time at which the last retention cycle finished",
			},
		),

		lastCycleOK: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_cycle_success",
				Help:      "Whether the last retention cycle completed without errors (1) or not (0)",
			},
		),
	}

	registry.MustRegister(
		rm.filesTotal,
		rm.skippedTotal,
		rm.stepErrorsTotal,
		rm.rotatedBytes,
		rm.cycleDuration,
		rm.cyclesTotal,
		rm.lastCycleTime,
		rm.lastCycleOK,
	)

	return rm
}
