package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the query engine.
type Metrics struct {
	QueriesTotal    *prometheus.CounterVec // labels: operation={query,summarize}, outcome={success,degraded,error}
	ResultEvents    prometheus.Histogram
	DegradedResults prometheus.Counter

	// Upstream source metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: source={feed,search,summarizer}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: source={feed,search,summarizer}
	DroppedFeatures  *prometheus.CounterVec   // labels: source, reason={missing_id,bad_coordinates}

	// Summary cache metrics.
	SummaryCache *prometheus.CounterVec // labels: result={hit,miss}

	// Optional Kafka fan-out.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.QueriesTotal,
		m.ResultEvents,
		m.DegradedResults,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.DroppedFeatures,
		m.SummaryCache,
		m.EventsPublished,
		m.PublishErrors,
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
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_query",
			Name:      "queries_total",
			Help:      "Engine invocations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		ResultEvents: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_query",
			Name:      "result_events",
			Help:      "Number of events per returned result set.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		DegradedResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_query",
			Name:      "degraded_results_total",
			Help:      "Result sets served from a single upstream source after the other failed.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_query",
			Name:      "upstream_requests_total",
			Help:      "Upstream HTTP requests by source and outcome.",
		}, []string{"source", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quake_query",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream HTTP request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		DroppedFeatures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_query",
			Name:      "dropped_features_total",
			Help:      "Upstream features rejected at the schema boundary.",
		}, []string{"source", "reason"}),
		SummaryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_query",
			Name:      "summary_cache_total",
			Help:      "Summary cache lookups by result.",
		}, []string{"result"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_query",
			Name:      "events_published_total",
			Help:      "Filtered events published to the result topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_query",
			Name:      "publish_errors_total",
			Help:      "Failed publishes to the result topic.",
		}),
	}
}
