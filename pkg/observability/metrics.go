// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the umleit gateway.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method, path, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "umleit_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method and path.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "umleit_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "path"},
	)

	// StreamingConnections tracks the number of active SSE streaming connections.
	StreamingConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "umleit_streaming_connections_active",
			Help: "Active streaming connections",
		},
	)

	// UpstreamRequestsTotal counts requests sent to the upstream provider.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "umleit_upstream_requests_total",
			Help: "Upstream requests",
		},
		[]string{"model", "outcome"},
	)

	// UpstreamLatency records upstream request latency in seconds.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "umleit_upstream_latency_seconds",
			Help:    "Upstream latency",
			Buckets: LLMBuckets,
		},
		[]string{"model"},
	)

	// UpstreamTokensTotal counts tokens processed by direction (input/output).
	// Counts are word-based estimates when the upstream reports none.
	UpstreamTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "umleit_upstream_tokens_total",
			Help: "Token count",
		},
		[]string{"model", "direction"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "umleit_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"tier"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		StreamingConnections,
		UpstreamRequestsTotal,
		UpstreamLatency,
		UpstreamTokensTotal,
		RateLimitRejectedTotal,
	)
}

// ObserveUpstreamRequest records one upstream call with its outcome label
// ("ok", "error", or "canceled") and latency.
func ObserveUpstreamRequest(model, outcome string, d time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(model, outcome).Inc()
	UpstreamLatency.WithLabelValues(model).Observe(d.Seconds())
}

// AddUpstreamTokens records prompt and completion token counts for a call.
func AddUpstreamTokens(model string, prompt, completion int) {
	UpstreamTokensTotal.WithLabelValues(model, "input").Add(float64(prompt))
	UpstreamTokensTotal.WithLabelValues(model, "output").Add(float64(completion))
}
