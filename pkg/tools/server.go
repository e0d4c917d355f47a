package tools

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/enreach/enreachvoice-mcp/pkg/enreach"
	"github.com/enreach/enreachvoice-mcp/pkg/observability"
)

// serverName identifies this MCP server to hosts.
const serverName = "enreachvoice"

// Config holds tool-surface settings.
type Config struct {
	// DefaultDirectory names the directory whose service-queue entries
	// provide queue descriptions. Default: "Default".
	DefaultDirectory string

	// MaxDirectoryEntries caps directory listing sizes. Default: 1000.
	MaxDirectoryEntries int

	// RecordingsDir is where save_recording writes audio files.
	// Default: "recordings".
	RecordingsDir string

	// TranscriptPollInterval is the delay between pending transcript
	// re-fetches. Default: 10s.
	TranscriptPollInterval time.Duration

	// TranscriptPollAttempts bounds pending transcript re-fetches.
	// Default: 10.
	TranscriptPollAttempts int
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.DefaultDirectory == "" {
		c.DefaultDirectory = "Default"
	}
	if c.MaxDirectoryEntries == 0 {
		c.MaxDirectoryEntries = 1000
	}
	if c.RecordingsDir == "" {
		c.RecordingsDir = "recordings"
	}
	if c.TranscriptPollInterval == 0 {
		c.TranscriptPollInterval = 10 * time.Second
	}
	if c.TranscriptPollAttempts == 0 {
		c.TranscriptPollAttempts = 10
	}
}

// Server builds the MCP server for a connected EnreachVoice client.
type Server struct {
	client *enreach.Client
	cfg    Config
}

// New creates a tool server backed by the given EnreachVoice client.
func New(client *enreach.Client, cfg Config) *Server {
	cfg.applyDefaults()
	return &Server{client: client, cfg: cfg}
}

// MCPServer constructs the MCP server with all tools and resources
// registered. The returned server is ready to run on any MCP transport.
func (s *Server) MCPServer(version string) *mcp.Server {
	srv := mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: version},
		nil,
	)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "get_queues",
		Description: "Get all contact center queues in the EnreachVoice system with their " +
			"realtime status: open status, queue length, ongoing calls, free and serving " +
			"agents, agents on wrap-up, and max wait time. Queue descriptions come from " +
			"the directory.",
	}, s.handleGetQueues)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "find_contact",
		Description: "Find directory entries matching a phone number. Searches all " +
			"directories and returns name, numbers, email, company, and location for " +
			"each match.",
	}, s.handleFindContact)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "get_user_calls",
		Description: "Get user call events. Requires either start_time and end_time, " +
			"modified_after and modified_before, or call_id. Time ranges are limited " +
			"to 31 days. Timestamps accept RFC 3339 or \"2006-01-02 15:04:05\" (UTC).",
	}, s.handleGetUserCalls)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "get_queue_calls",
		Description: "Get inbound queue calls (service calls). Requires either " +
			"start_time and end_time or modified_after and modified_before. Time " +
			"ranges are limited to 31 days.",
	}, s.handleGetQueueCalls)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "get_transcript",
		Description: "Get a call transcript by transcript ID. Pending transcripts are " +
			"re-fetched until ready unless wait_pending is false.",
	}, s.handleGetTranscript)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "save_recording",
		Description: "Download a call recording by recording ID and save it as an " +
			"mp3 file. Returns the saved file path.",
	}, s.handleSaveRecording)

	srv.AddResource(&mcp.Resource{
		URI:         "data://queues",
		Name:        "queues",
		Description: "All contact center queues with realtime status",
		MIMEType:    "application/json",
	}, s.readQueuesResource)

	return srv
}

// textResult wraps plain text in a successful tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// jsonResult marshals v as indented JSON into a successful tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling tool result: %w", err)
	}
	return textResult(string(data)), nil
}

// errorResult wraps a message in an error tool result. The host receives
// the failure as tool output; the server keeps running.
func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// recordExecution updates the tool execution counter.
func recordExecution(tool string, failed bool) {
	status := "success"
	if failed {
		status = "error"
	}
	observability.ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
}
