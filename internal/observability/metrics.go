package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the ingestion
// service.
type Metrics struct {
	FilesProcessed *prometheus.CounterVec // labels: format={csv,json,geojson,quakeml,unknown}, outcome={accepted,rejected,failed}
	EventsParsed   prometheus.Counter
	EventsInvalid  prometheus.Counter
	ParseErrors    prometheus.Counter

	QualityScore   prometheus.Histogram
	IngestDuration prometheus.Histogram
}

// NewMetrics creates and registers all ingestion metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "files_processed_total",
			Help:      "Catalogue files ingested by detected format and outcome.",
		}, []string{"format", "outcome"}),
		EventsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "events_parsed_total",
			Help:      "Total earthquake events successfully parsed from uploads.",
		}),
		EventsInvalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "events_invalid_total",
			Help:      "Parsed events rejected by range and timestamp validation.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "parse_errors_total",
			Help:      "Total parse errors reported across all uploads.",
		}),
		QualityScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_etl",
			Name:      "quality_score",
			Help:      "Overall quality score assigned to each ingested catalogue.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 100},
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_etl",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a complete parse-validate-assess cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
	}

	prometheus.MustRegister(
		m.FilesProcessed,
		m.EventsParsed,
		m.EventsInvalid,
		m.ParseErrors,
		m.QualityScore,
		m.IngestDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_etl", Name: "files_processed_total"}, []string{"format", "outcome"}),
		EventsParsed:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_etl", Name: "events_parsed_total"}),
		EventsInvalid:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_etl", Name: "events_invalid_total"}),
		ParseErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_etl", Name: "parse_errors_total"}),
		QualityScore:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_etl", Name: "quality_score"}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_etl", Name: "ingest_duration_seconds"}),
	}
}
