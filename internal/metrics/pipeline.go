package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline Prometheus metrics.
var (
	IntentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "regalo",
			Name:      "intent_requests_total",
			Help:      "Total number of intent provider calls",
		},
		[]string{"provider", "status"},
	)

	IntentRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "regalo",
			Name:      "intent_request_duration_seconds",
			Help:      "Intent provider call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	IntentFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "regalo",
			Name:      "intent_fallback_total",
			Help:      "Intent parses answered by the heuristic fallback",
		},
		[]string{"reason"}, // "error" / "timeout"
	)

	IntentCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "regalo",
			Name:      "intent_cache_total",
			Help:      "Intent cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RetrievalTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "regalo",
			Name:      "retrieval_total",
			Help:      "Catalog retrievals by execution path",
		},
		[]string{"path"}, // "fulltext" / "rpc" / "fallback" / "empty"
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "regalo",
			Name:      "retrieval_duration_seconds",
			Help:      "Catalog retrieval duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"path"},
	)

	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "regalo",
			Name:      "rate_limit_rejected_total",
			Help:      "Requests rejected by the per-client rate limiter",
		},
	)
)

var registerPipeline sync.Once

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Safe to call more than once.
func RegisterPipelineMetrics() {
	registerPipeline.Do(func() {
		prometheus.MustRegister(IntentRequestsTotal)
		prometheus.MustRegister(IntentRequestDuration)
		prometheus.MustRegister(IntentFallbackTotal)
		prometheus.MustRegister(IntentCacheTotal)
		prometheus.MustRegister(RetrievalTotal)
		prometheus.MustRegister(RetrievalDuration)
		prometheus.MustRegister(RateLimitRejectedTotal)
	})
}
