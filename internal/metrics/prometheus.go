package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for weekly runs

var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weeklypicks_runs_total",
			Help: "Total number of weekly runs",
		},
		[]string{"mode", "status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weeklypicks_run_duration_seconds",
			Help:    "Duration of weekly runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weeklypicks_last_successful_run_timestamp",
			Help: "Timestamp of the last weekly run that completed",
		},
	)

	// Data quality metrics
	UnmappedAliasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weeklypicks_unmapped_aliases_total",
			Help: "Total number of team cells left unmapped by the alias registry",
		},
	)

	AliasConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weeklypicks_alias_conflicts_total",
			Help: "Total number of aliases claimed by more than one team",
		},
	)

	ScheduleRowsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weeklypicks_schedule_rows_dropped_total",
			Help: "Total number of schedule rows dropped",
		},
		[]string{"reason"},
	)

	// Oracle metrics
	OracleCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weeklypicks_oracle_calls_total",
			Help: "Total number of prediction oracle calls",
		},
		[]string{"status"},
	)

	OracleCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weeklypicks_oracle_call_duration_seconds",
			Help:    "Duration of prediction oracle calls in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Store and source metrics
	RowsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weeklypicks_rows_written_total",
			Help: "Total number of weekly sheet rows written",
		},
		[]string{"mode"},
	)

	SourceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weeklypicks_source_fetches_total",
			Help: "Total number of source table fetches",
		},
		[]string{"sheet", "status"},
	)
)

// RecordRun records a completed or failed run
func RecordRun(mode, status string, duration float64) {
	RunsTotal.WithLabelValues(mode, status).Inc()
	RunDuration.Observe(duration)

	if status == "success" {
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordDataQuality records the anomalies found while loading a run's inputs
func RecordDataQuality(unmapped, conflicts, badWeek, badDate int) {
	UnmappedAliasesTotal.Add(float64(unmapped))
	AliasConflictsTotal.Add(float64(conflicts))
	ScheduleRowsDroppedTotal.WithLabelValues("week").Add(float64(badWeek))
	ScheduleRowsDroppedTotal.WithLabelValues("date").Add(float64(badDate))
}

// RecordOracleCall records a prediction oracle call
func RecordOracleCall(status string, duration float64) {
	OracleCallsTotal.WithLabelValues(status).Inc()
	OracleCallDuration.Observe(duration)
}

// RecordRowWritten records a row written to a weekly sheet
func RecordRowWritten(mode string) {
	RowsWrittenTotal.WithLabelValues(mode).Inc()
}

// RecordSourceFetch records a source table fetch
func RecordSourceFetch(sheet, status string) {
	SourceFetchesTotal.WithLabelValues(sheet, status).Inc()
}
