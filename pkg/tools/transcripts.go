package tools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/enreach/enreachvoice-mcp/pkg/enreach"
)

// TranscriptInput holds the get_transcript tool arguments.
type TranscriptInput struct {
	TranscriptID string `json:"transcript_id" jsonschema_description:"Transcript ID to fetch"`
	WaitPending  *bool  `json:"wait_pending,omitempty" jsonschema_description:"Re-fetch a pending transcript until ready (default true)"`
}

// handleGetTranscript implements the get_transcript tool. Pending
// transcripts are polled until ready unless wait_pending is false; a
// transcript still pending after the polling budget is returned as-is.
func (s *Server) handleGetTranscript(ctx context.Context, _ *mcp.CallToolRequest, in TranscriptInput) (*mcp.CallToolResult, any, error) {
	transcriptID := strings.TrimSpace(in.TranscriptID)
	if transcriptID == "" {
		recordExecution("get_transcript", true)
		return errorResult("transcript_id must not be empty"), nil, nil
	}

	wait := in.WaitPending == nil || *in.WaitPending

	var t *enreach.Transcript
	var err error
	if wait {
		t, err = s.client.WaitTranscript(ctx, transcriptID, s.cfg.TranscriptPollInterval, s.cfg.TranscriptPollAttempts)
	} else {
		t, err = s.client.Transcript(ctx, transcriptID)
	}
	if err != nil {
		recordExecution("get_transcript", true)
		return errorResult("getting transcript: %v", err), nil, nil
	}

	recordExecution("get_transcript", false)
	return textResult(string(t.Raw)), nil, nil
}
