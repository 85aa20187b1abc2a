package search

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "joblens"

// Metrics holds the Prometheus collectors for searches and source fetches.
// A nil *Metrics records nothing.
type Metrics struct {
	SearchesTotal      *prometheus.CounterVec
	SourceFetchesTotal *prometheus.CounterVec
	SourceFetchSeconds *prometheus.HistogramVec
	SearchResults      prometheus.Histogram
}

// NewMetrics creates and registers the search metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "searches_total",
				Help:      "Total number of searches served, by cache hit",
			},
			[]string{"cached"},
		),
		SourceFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "source_fetches_total",
				Help:      "Total number of adapter calls, by source and outcome",
			},
			[]string{"source", "status"},
		),
		SourceFetchSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "source_fetch_seconds",
				Help:      "Adapter call latency",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"source"},
		),
		SearchResults: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "search_results",
				Help:      "Number of jobs returned per fresh search",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
		),
	}
}

func (m *Metrics) searchServed(cached bool) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(strconv.FormatBool(cached)).Inc()
}

func (m *Metrics) sourceFetched(source, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SourceFetchesTotal.WithLabelValues(source, status).Inc()
	m.SourceFetchSeconds.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (m *Metrics) resultsReturned(n int) {
	if m == nil {
		return
	}
	m.SearchResults.Observe(float64(n))
}
