// Package metrics holds the Prometheus instrumentation for LLM calls,
// caches, and the HTTP surface.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// LLM Prometheus metrics, shared by the completion and embedding transports.
// The "call" label distinguishes "completion" from "embedding".
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coldreach",
			Name:      "llm_requests_total",
			Help:      "Total number of LLM API requests",
		},
		[]string{"call", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coldreach",
			Name:      "llm_request_duration_seconds",
			Help:      "LLM API request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"call", "model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coldreach",
			Name:      "llm_tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"call", "model", "type"},
	)

	LLMErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coldreach",
			Name:      "llm_errors_total",
			Help:      "Total LLM API errors",
		},
		[]string{"call", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coldreach",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	PageCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coldreach",
			Name:      "page_cache_total",
			Help:      "Fetched-page cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	EmailsGeneratedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coldreach",
			Name:      "emails_generated_total",
			Help:      "Total outreach emails generated successfully",
		},
	)
)

var llmMetricsRegistered bool

// RegisterLLMMetrics registers Prometheus LLM metrics. Must be called once from main.
func RegisterLLMMetrics() {
	if llmMetricsRegistered {
		return
	}
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMTokensTotal)
	prometheus.MustRegister(LLMErrorsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(PageCacheTotal)
	prometheus.MustRegister(EmailsGeneratedTotal)
	llmMetricsRegistered = true
}
