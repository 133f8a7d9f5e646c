package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dlm_stats"

// Metrics holds the Prometheus counters, histograms, and gauges for an analysis run.
type Metrics struct {
	PipelineRunning   prometheus.Gauge
	LocationsRetained prometheus.Gauge
	SamplesMasked     prometheus.Counter

	// Best-track ingestion.
	TrackLinesSkipped prometheus.Counter
	TrackFixesKept    prometheus.Counter

	// Combination battery.
	Combinations        *prometheus.CounterVec // labels: outcome={computed,skipped}
	CombinationDuration prometheus.Histogram

	ResultsPublished prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PipelineRunning,
		m.LocationsRetained,
		m.SamplesMasked,
		m.TrackLinesSkipped,
		m.TrackFixesKept,
		m.Combinations,
		m.CombinationDuration,
		m.ResultsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while an analysis run is in progress, 0 otherwise.",
		}),
		LocationsRetained: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "locations_retained",
			Help:      "Grid points kept after the coastal and region filters.",
		}),
		SamplesMasked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_masked_total",
			Help:      "Wind samples set missing by the tropical-cyclone filter.",
		}),
		TrackLinesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "best_track_lines_skipped_total",
			Help:      "Malformed best-track lines skipped during parsing.",
		}),
		TrackFixesKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "best_track_fixes_kept_total",
			Help:      "Best-track fixes retained after the status and window filters.",
		}),
		Combinations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "combinations_total",
			Help:      "Region/bucket/period combinations by outcome.",
		}, []string{"outcome"}),
		CombinationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "combination_duration_seconds",
			Help:      "Time to compute one combination including the bootstrap.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_published_total",
			Help:      "Combination results written to Kafka.",
		}),
	}
}
