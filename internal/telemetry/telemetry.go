// Package telemetry exposes Prometheus metrics for the analysis pipeline.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values for AnalysesTotal.
const (
	OutcomeSuccess         = "success"
	OutcomeInputError      = "input_error"
	OutcomeFetchError      = "fetch_error"
	OutcomeExtractionError = "extraction_error"
	OutcomeAnalysisError   = "analysis_error"
)

// Cache event label values.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	// AnalysesTotal counts analysis requests by outcome.
	AnalysesTotal *prometheus.CounterVec
	// CacheEvents counts cache lookups by result.
	CacheEvents *prometheus.CounterVec
	// CoalescedRequests counts requests that shared an in-flight pipeline run.
	CoalescedRequests prometheus.Counter
	// AnalysisDuration observes full pipeline duration for uncached requests.
	AnalysisDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates and registers the service metrics on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "siteinsight_analyses_total",
			Help: "Analysis requests by outcome.",
		}, []string{"outcome"}),
		CacheEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "siteinsight_cache_events_total",
			Help: "Analysis cache lookups by result.",
		}, []string{"event"}),
		CoalescedRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "siteinsight_coalesced_requests_total",
			Help: "Requests that awaited an identical in-flight analysis.",
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "siteinsight_analysis_duration_seconds",
			Help:    "Duration of uncached analysis pipeline runs.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		registry: registry,
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
