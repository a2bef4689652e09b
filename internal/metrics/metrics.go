// Package metrics exposes the engine's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EventsIngested counts events accepted from the input stream.
	EventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyber_events_ingested_total",
		Help: "Security events consumed from the input stream.",
	})

	// ParseFailures counts events that could not be normalized.
	ParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyber_event_parse_failures_total",
		Help: "Inbound payloads rejected by the event parser.",
	})

	// Observations counts graph mutations applied from events.
	Observations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyber_graph_observations_total",
		Help: "Asset-pair observations applied to the graph.",
	})

	// GraphAssets tracks the known asset count.
	GraphAssets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cyber_graph_assets",
		Help: "Assets currently tracked by the graph.",
	})

	// GraphEdges tracks the edge count.
	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cyber_graph_edges",
		Help: "Distinct asset-pair edges currently tracked by the graph.",
	})

	// CacheHits counts score-cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyber_score_cache_hits_total",
		Help: "Score cache lookups answered without recomputation.",
	})

	// CacheMisses counts score-cache misses, including stale-revision and
	// store-failure degradations.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyber_score_cache_misses_total",
		Help: "Score cache lookups that required recomputation.",
	})

	// DiscoverDuration observes attack-path discovery latency.
	DiscoverDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cyber_discover_duration_seconds",
		Help:    "Wall time of attack-path discovery scans.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	// DegradedFusions counts evaluations that fell back to neutral model
	// signals after a provider timeout or error.
	DegradedFusions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyber_degraded_fusions_total",
		Help: "Evaluations completed with neutral model signals.",
	})

	// Alerts counts verdicts over the alert threshold.
	Alerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyber_alerts_total",
		Help: "Verdicts whose overall score crossed the alert threshold.",
	})
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
