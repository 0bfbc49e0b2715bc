package metrics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/logkeeper/pkg/config"
	"mercator-hq/logkeeper/pkg/retention/scheduler"
)

// Collector records retention metrics and, when a textfile path is
// configured, writes them for the node_exporter textfile collector after
// every cycle.
type Collector struct {
	config    *config.MetricsConfig
	registry  *prometheus.Registry
	retention *RetentionMetrics
	logger    *slog.Logger
}

// NewCollector creates a new metrics collector. If registry is nil a new
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:      true,
//		TextfilePath: "/var/lib/node_exporter/logkeeper.prom",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.CycleDurationBuckets) == 0 {
		// Cycles touch a handful of files; anything past a minute is unusual.
		cfg.CycleDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60}
	}

	return &Collector{
		config:    cfg,
		registry:  registry,
		retention: NewRetentionMetrics(cfg, registry),
		logger:    slog.Default().With("component", "telemetry.metrics"),
	}
}

// Registry returns the registry the collector's metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordCycle updates all metrics from one cycle result.
func (c *Collector) RecordCycle(r scheduler.CycleResult) {
	if !c.config.Enabled {
		return
	}

	rm := c.retention
	for _, st := range r.Steps {
		rm.filesTotal.WithLabelValues(st.Op).Add(float64(len(st.Result.Affected)))
		rm.skippedTotal.WithLabelValues(st.Op).Add(float64(st.Result.Skipped))
		rm.rotatedBytes.Add(float64(st.Result.Bytes))
		if st.Err != nil {
			rm.stepErrorsTotal.WithLabelValues(st.Op).Inc()
		}
	}

	rm.cycleDuration.Observe(r.Finished.Sub(r.Started).Seconds())
	rm.lastCycleTime.Set(float64(r.Finished.Unix()))

	if r.Err() != nil {
		rm.cyclesTotal.WithLabelValues("error").Inc()
		rm.lastCycleOK.Set(0)
	} else {
		rm.cyclesTotal.WithLabelValues("success").Inc()
		rm.lastCycleOK.Set(1)
	}
}

// WriteTextfile writes the current metrics to path in the Prometheus text
// exposition format. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %q: %w", path, err)
	}
	return nil
}

// ObserveCycle implements scheduler.Observer.
func (c *Collector) ObserveCycle(_ context.Context, r scheduler.CycleResult) {
	if !c.config.Enabled {
		return
	}

	c.RecordCycle(r)

	if c.config.TextfilePath == "" {
		return
	}
	if err := c.WriteTextfile(c.config.TextfilePath); err != nil {
		c.logger.Error("failed to export metrics", "error", err)
	}
}
