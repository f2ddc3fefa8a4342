package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// alerting pipeline.
type Metrics struct {
	RecordsConsumed  prometheus.Counter
	RecordsProcessed prometheus.Counter
	RecordsFailed    *prometheus.CounterVec // labels: stage={extract,decode,entities,publish}
	AlertsPublished  *prometheus.CounterVec // labels: severity={low,medium,high}
	AlertsSuppressed prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// External dependency metrics.
	DependencyDuration *prometheus.HistogramVec // labels: dependency
	DependencyErrors   *prometheus.CounterVec   // labels: dependency
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	ArchiveFailures    prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsConsumed,
		m.RecordsProcessed,
		m.RecordsFailed,
		m.AlertsPublished,
		m.AlertsSuppressed,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.DependencyDuration,
		m.DependencyErrors,
		m.GeocodeCache,
		m.ArchiveFailures,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// construct as many instances as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_alert",
			Name:      "records_consumed_total",
			Help:      "Total stream records read from the source topic.",
		}),
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_alert",
			Name:      "records_processed_total",
			Help:      "Total records that completed the pipeline successfully.",
		}),
		RecordsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_alert",
			Name:      "records_failed_total",
			Help:      "Total per-record failures by pipeline stage.",
		}, []string{"stage"}),
		AlertsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_alert",
			Name:      "alerts_published_total",
			Help:      "Total alerts handed to the notification channel, by severity.",
		}, []string{"severity"}),
		AlertsSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_alert",
			Name:      "alerts_suppressed_total",
			Help:      "Records that succeeded with alerting deliberately skipped.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_alert",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_alert",
			Name:      "batch_size",
			Help:      "Number of records per batch extracted from the source.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_alert",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch processing cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		DependencyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "disaster_alert",
			Name:      "dependency_duration_seconds",
			Help:      "External dependency call duration by dependency name.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"dependency"}),
		DependencyErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_alert",
			Name:      "dependency_errors_total",
			Help:      "External dependency call failures by dependency name.",
		}, []string{"dependency"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_alert",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		ArchiveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_alert",
			Name:      "archive_failures_total",
			Help:      "Best-effort raw-record archival failures.",
		}),
	}
}
