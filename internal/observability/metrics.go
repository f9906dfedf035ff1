package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "event_annotator"

// Metrics holds the Prometheus counters, histograms, and gauges for annotation passes.
type Metrics struct {
	RowsScanned         prometheus.Counter
	EventsMatched       prometheus.Counter
	RowsSkipped         *prometheus.CounterVec // labels: role={id,type,start,end,label,description,location:<type>}
	ConfigurationErrors prometheus.Counter
	SeriesAnnotated     prometheus.Counter
	AnnotationsLoaded   prometheus.Counter
	AnnotationsFiltered prometheus.Counter
	PassDuration        prometheus.Histogram
	PipelineReady       prometheus.Gauge
}

// NewMetrics creates and registers all annotator metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsScanned,
		m.EventsMatched,
		m.RowsSkipped,
		m.ConfigurationErrors,
		m.SeriesAnnotated,
		m.AnnotationsLoaded,
		m.AnnotationsFiltered,
		m.PassDuration,
		m.PipelineReady,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_scanned_total",
			Help:      "Total event table rows examined across all series.",
		}),
		EventsMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_matched_total",
			Help:      "Total time series events produced.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Rows skipped because a cell could not be extracted, by column role.",
		}, []string{"role"}),
		ConfigurationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "configuration_errors_total",
			Help:      "Annotation passes aborted by a column configuration error.",
		}),
		SeriesAnnotated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "series_annotated_total",
			Help:      "Total time series matched against the event table.",
		}),
		AnnotationsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotations_loaded_total",
			Help:      "Total annotations written to the sink.",
		}),
		AnnotationsFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotations_filtered_total",
			Help:      "Matched events dropped by the profile's annotation filter.",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of a complete annotation pass.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		PipelineReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_ready",
			Help:      "1 once an annotation pass has completed, 0 otherwise.",
		}),
	}
}
