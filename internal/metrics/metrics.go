// Package metrics collects Prometheus metrics for one masking run and writes
// them in the text exposition format, for a node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ginjaninja78/csv-pii-masker/internal/processor"
)

// Metrics holds the collectors of a run. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Data rows seen by the row processor
	RowsProcessed prometheus.Counter

	// Dropped rows by reason: "duplicate", "invalid"
	RowsSkipped *prometheus.CounterVec

	// Rows that became records
	RecordsAccepted prometheus.Counter

	// Average billing written to the masked output
	AverageBilling prometheus.Gauge

	// Wall time of the run
	RunDuration prometheus.Gauge

	// Unix time of the last completed run, by outcome: "success", "failure"
	LastRun *prometheus.GaugeVec
}

// New creates a Metrics instance on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		RowsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "masker_rows_processed_total",
			Help: "Data rows read from the input",
		}),

		RowsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "masker_rows_skipped_total",
			Help: "Data rows dropped by the row processor, by reason",
		}, []string{"reason"}),

		RecordsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "masker_records_accepted_total",
			Help: "Rows that passed validation and deduplication",
		}),

		AverageBilling: factory.NewGauge(prometheus.GaugeOpts{
			Name: "masker_average_billing",
			Help: "Average billing of accepted records in the last run",
		}),

		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "masker_run_duration_seconds",
			Help: "Duration of the last run",
		}),

		LastRun: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "masker_last_run_timestamp_seconds",
			Help: "Unix time the last run finished, by outcome",
		}, []string{"outcome"}),
	}

	// Pre-create the skip series so a clean run still exports zeros.
	m.RowsSkipped.WithLabelValues(string(processor.SkipDuplicate))
	m.RowsSkipped.WithLabelValues(string(processor.SkipInvalid))

	return m
}

// Registry exposes the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RowProcessed implements processor.Recorder.
func (m *Metrics) RowProcessed() {
	if m != nil {
		m.RowsProcessed.Inc()
	}
}

// RowSkipped implements processor.Recorder.
func (m *Metrics) RowSkipped(reason processor.SkipReason) {
	if m != nil {
		m.RowsSkipped.WithLabelValues(string(reason)).Inc()
	}
}

// RecordAccepted implements processor.Recorder.
func (m *Metrics) RecordAccepted() {
	if m != nil {
		m.RecordsAccepted.Inc()
	}
}

// SetAverageBilling records the billing value written to the output.
func (m *Metrics) SetAverageBilling(v float64) {
	if m != nil {
		m.AverageBilling.Set(v)
	}
}

// ObserveRun records the duration and completion time of a run.
func (m *Metrics) ObserveRun(d time.Duration, finished time.Time, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.RunDuration.Set(d.Seconds())
	m.LastRun.WithLabelValues(outcome).Set(float64(finished.Unix()))
}

// WriteTextfile writes every metric to path, creating parent directories.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
