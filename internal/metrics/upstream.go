package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream service labels.
const (
	ServiceSearch = "search"
	ServiceLLM    = "llm"
)

// Upstream and answer Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests to search and LLM services",
		},
		[]string{"service", "operation", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service", "operation"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"operation", "type"}, // type: "prompt" / "completion"
	)

	AnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "answers_total",
			Help:      "Answers produced, by how the answer was resolved",
		},
		[]string{"resolution"},
	)
)

var upstreamMetricsRegistered bool

// RegisterUpstreamMetrics registers upstream and answer metrics. Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(LLMTokensTotal)
	prometheus.MustRegister(AnswersTotal)
	upstreamMetricsRegistered = true
}

// ObserveUpstream records one upstream call. status is "ok", "rate_limited" or "error".
func ObserveUpstream(service, operation, status string, started time.Time) {
	UpstreamRequestsTotal.WithLabelValues(service, operation, status).Inc()
	UpstreamRequestDuration.WithLabelValues(service, operation).Observe(time.Since(started).Seconds())
}

// ObserveTokens records prompt and completion token usage for an LLM operation.
func ObserveTokens(operation string, prompt, completion int) {
	if prompt > 0 {
		LLMTokensTotal.WithLabelValues(operation, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		LLMTokensTotal.WithLabelValues(operation, "completion").Add(float64(completion))
	}
}
