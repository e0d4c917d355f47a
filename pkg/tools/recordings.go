package tools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SaveRecordingInput holds the save_recording tool arguments.
type SaveRecordingInput struct {
	RecordingID string `json:"recording_id" jsonschema_description:"Recording ID to download"`
}

// handleSaveRecording implements the save_recording tool. The audio is
// written to the configured recordings directory as {recording_id}.mp3.
func (s *Server) handleSaveRecording(ctx context.Context, _ *mcp.CallToolRequest, in SaveRecordingInput) (*mcp.CallToolResult, any, error) {
	recordingID := strings.TrimSpace(in.RecordingID)
	if recordingID == "" {
		recordExecution("save_recording", true)
		return errorResult("recording_id must not be empty"), nil, nil
	}

	path, err := s.client.DownloadRecording(ctx, recordingID, s.cfg.RecordingsDir)
	if err != nil {
		recordExecution("save_recording", true)
		return errorResult("downloading recording: %v", err), nil, nil
	}

	recordExecution("save_recording", false)
	return textResult("Recording saved to " + path), nil, nil
}
