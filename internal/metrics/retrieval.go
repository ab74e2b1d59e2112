// Package metrics holds the Prometheus instrumentation for the retrieval
// engine and its HTTP surface.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and generation Prometheus metrics.
var (
	StrategyRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chefboost",
			Name:      "strategy_requests_total",
			Help:      "Total retrieval strategy executions",
		},
		[]string{"strategy", "status"},
	)

	StrategyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chefboost",
			Name:      "strategy_duration_seconds",
			Help:      "Retrieval strategy execution duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"strategy"},
	)

	StrategyCandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chefboost",
			Name:      "strategy_candidates_total",
			Help:      "Total scored documents produced per strategy",
		},
		[]string{"strategy"},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chefboost",
			Name:      "generation_requests_total",
			Help:      "Total text generation requests",
		},
		[]string{"model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chefboost",
			Name:      "generation_request_duration_seconds",
			Help:      "Text generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chefboost",
			Name:      "embedding_requests_total",
			Help:      "Total query embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chefboost",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ToolDispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chefboost",
			Name:      "tool_dispatch_total",
			Help:      "Total tool dispatches by outcome",
		},
		[]string{"tool", "status"},
	)
)

// RegisterRetrievalMetrics registers the retrieval metrics. Must be called
// once from main.
func RegisterRetrievalMetrics() {
	prometheus.MustRegister(
		StrategyRequestsTotal,
		StrategyDuration,
		StrategyCandidatesTotal,
		GenerationRequestsTotal,
		GenerationRequestDuration,
		EmbeddingRequestsTotal,
		EmbeddingCacheTotal,
		ToolDispatchTotal,
	)
}
