package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// WebScout Metrics - using explicit registration
var (
	// HTTP request counter
	RequestsTotal *prometheus.CounterVec

	// Tool call counter
	ToolCallsTotal *prometheus.CounterVec

	// Tool duration histogram
	ToolDuration *prometheus.HistogramVec

	// Search/scrape provider counters and latency
	ProviderRequestsTotal *prometheus.CounterVec
	ProviderLatency       *prometheus.HistogramVec

	// Page fetch counter
	PageFetchTotal *prometheus.CounterVec

	// Circuit breaker state gauge
	CircuitBreakerState *prometheus.GaugeVec
)

// init creates and registers all metrics with the default registry
func init() {
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webscout",
			Subsystem: "mcp",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webscout",
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations",
		},
		[]string{"tool_name", "status"},
	)

	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "webscout",
			Subsystem: "mcp",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name"},
	)

	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webscout",
			Subsystem: "mcp",
			Name:      "provider_requests_total",
			Help:      "Total requests issued to search providers",
		},
		[]string{"provider", "operation", "status"},
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "webscout",
			Subsystem: "mcp",
			Name:      "provider_latency_seconds",
			Help:      "Search provider response time in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider", "operation"},
	)

	PageFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webscout",
			Subsystem: "mcp",
			Name:      "page_fetch_total",
			Help:      "Total outbound page fetches",
		},
		[]string{"status"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "webscout",
			Subsystem: "mcp",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 0.5=half-open, 1=open)",
		},
		[]string{"provider"},
	)

	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(ToolCallsTotal)
	prometheus.MustRegister(ToolDuration)
	prometheus.MustRegister(ProviderRequestsTotal)
	prometheus.MustRegister(ProviderLatency)
	prometheus.MustRegister(PageFetchTotal)
	prometheus.MustRegister(CircuitBreakerState)
	log.Info().Msg("WebScout metrics registered with Prometheus")
}

// RecordRequest records an HTTP request
func RecordRequest(method, path, status string) {
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordToolCall records a tool invocation
func RecordToolCall(toolName, status string, durationSec float64) {
	if status == "" {
		status = "unknown"
	}
	ToolCallsTotal.WithLabelValues(toolName, status).Inc()
	ToolDuration.WithLabelValues(toolName).Observe(durationSec)
}

// RecordProviderRequest records a search provider round trip
func RecordProviderRequest(provider, operation, status string, durationSec float64) {
	if status == "" {
		status = "unknown"
	}
	ProviderRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	ProviderLatency.WithLabelValues(provider, operation).Observe(durationSec)
}

// RecordPageFetch records an outbound page fetch outcome
func RecordPageFetch(status string) {
	if status == "" {
		status = "unknown"
	}
	PageFetchTotal.WithLabelValues(status).Inc()
}

// SetCircuitBreakerState sets the circuit breaker state
func SetCircuitBreakerState(provider string, state string) {
	var val float64
	switch state {
	case "closed":
		val = 0.0
	case "half-open":
		val = 0.5
	case "open":
		val = 1.0
	}
	CircuitBreakerState.WithLabelValues(provider).Set(val)
}
