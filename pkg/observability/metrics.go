// Package observability provides Prometheus metrics for the
// EnreachVoice MCP server.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets defines histogram buckets suited for REST API latencies,
// ranging from 10ms to 30s.
var APIBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

var (
	// APIRequestsTotal counts outbound EnreachVoice API requests by
	// method, path, and HTTP status (or "network_error").
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enreachvoice_api_requests_total",
			Help: "Outbound EnreachVoice API requests",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration records outbound API request duration in seconds.
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enreachvoice_api_request_duration_seconds",
			Help:    "Outbound EnreachVoice API request duration",
			Buckets: APIBuckets,
		},
		[]string{"method", "path"},
	)

	// ToolExecutionsTotal counts MCP tool executions by name and outcome.
	ToolExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enreachvoice_tool_executions_total",
			Help: "MCP tool executions",
		},
		[]string{"tool", "status"},
	)

	// TranscriptPollsTotal counts re-fetches of pending transcripts.
	TranscriptPollsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "enreachvoice_transcript_polls_total",
			Help: "Pending transcript re-fetches",
		},
	)

	// AuthRejectedTotal counts HTTP requests rejected by authentication.
	AuthRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "enreachvoice_auth_rejected_total",
			Help: "Requests rejected by authentication",
		},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequestsTotal,
		APIRequestDuration,
		ToolExecutionsTotal,
		TranscriptPollsTotal,
		AuthRejectedTotal,
	)
}
