// Package metrics exposes Prometheus collectors for searches, sources,
// enrichment and provider breakers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sells-group/prospect-cli/internal/resilience"
)

// Search outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

var (
	searchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prospect_search_requests_total",
		Help: "Search page requests by provider, engine and outcome",
	}, []string{"provider", "engine", "outcome"})

	sourceRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prospect_source_records_total",
		Help: "Records produced per source before deduplication",
	}, []string{"source"})

	sourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prospect_source_failures_total",
		Help: "Sources that contributed nothing because of an error",
	}, []string{"source"})

	enrichments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prospect_enrichments_total",
		Help: "Enrichment lookups by resulting email origin",
	}, []string{"origin"})

	pageFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prospect_page_fetches_total",
		Help: "Candidate page fetches by scraper, empty scraper means the fetch failed",
	}, []string{"scraper"})

	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "prospect_breaker_state",
		Help: "Provider breaker state (0 closed, 1 open, 2 half-open)",
	}, []string{"name"})

	aggregateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prospect_aggregate_duration_seconds",
		Help:    "Wall time of one aggregation request",
		Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
	})
)

// ObserveSearch counts one search page request.
func ObserveSearch(provider, engine, outcome string) {
	searchRequests.WithLabelValues(provider, engine, outcome).Inc()
}

// AddSourceRecords counts records emitted by a source.
func AddSourceRecords(source string, n int) {
	sourceRecords.WithLabelValues(source).Add(float64(n))
}

// IncSourceFailure counts a failed source.
func IncSourceFailure(source string) {
	sourceFailures.WithLabelValues(source).Inc()
}

// IncEnrichment counts an enrichment lookup.
func IncEnrichment(origin string) {
	enrichments.WithLabelValues(origin).Inc()
}

// IncPageFetch counts a candidate page fetch.
func IncPageFetch(scraper string) {
	pageFetches.WithLabelValues(scraper).Inc()
}

// ObserveAggregate records the duration of an aggregation.
// Call with time.Now() at the start of the operation.
func ObserveAggregate(start time.Time) {
	aggregateDuration.Observe(time.Since(start).Seconds())
}

// BreakerStateChanged is a resilience.BreakerConfig.OnStateChange hook.
func BreakerStateChanged(name string, _, to resilience.State) {
	breakerState.WithLabelValues(name).Set(float64(to))
}
