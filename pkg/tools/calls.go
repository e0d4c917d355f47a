package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/enreach/enreachvoice-mcp/pkg/enreach"
)

// CallsInput holds the call history tool arguments. Timestamps accept
// RFC 3339 or "2006-01-02 15:04:05" (interpreted as UTC).
type CallsInput struct {
	StartTime      string `json:"start_time,omitempty" jsonschema_description:"Window start timestamp"`
	EndTime        string `json:"end_time,omitempty" jsonschema_description:"Window end timestamp"`
	ModifiedAfter  string `json:"modified_after,omitempty" jsonschema_description:"Modification window start timestamp"`
	ModifiedBefore string `json:"modified_before,omitempty" jsonschema_description:"Modification window end timestamp"`
	CallID         string `json:"call_id,omitempty" jsonschema_description:"Single call ID to fetch (user calls only)"`
}

// filter converts the tool arguments to a client call filter.
func (in CallsInput) filter() (enreach.CallFilter, error) {
	var f enreach.CallFilter
	var err error

	if f.StartTime, err = parseTime(in.StartTime); err != nil {
		return f, fmt.Errorf("start_time: %w", err)
	}
	if f.EndTime, err = parseTime(in.EndTime); err != nil {
		return f, fmt.Errorf("end_time: %w", err)
	}
	if f.ModifiedAfter, err = parseTime(in.ModifiedAfter); err != nil {
		return f, fmt.Errorf("modified_after: %w", err)
	}
	if f.ModifiedBefore, err = parseTime(in.ModifiedBefore); err != nil {
		return f, fmt.Errorf("modified_before: %w", err)
	}
	f.CallID = in.CallID

	return f, nil
}

// parseTime parses a timestamp in RFC 3339 or "2006-01-02 15:04:05"
// format. The latter is interpreted as UTC. Empty input yields a zero time.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// handleGetUserCalls implements the get_user_calls tool. The API response
// is passed through verbatim.
func (s *Server) handleGetUserCalls(ctx context.Context, _ *mcp.CallToolRequest, in CallsInput) (*mcp.CallToolResult, any, error) {
	filter, err := in.filter()
	if err != nil {
		recordExecution("get_user_calls", true)
		return errorResult("invalid arguments: %v", err), nil, nil
	}

	calls, err := s.client.UserCalls(ctx, filter)
	if err != nil {
		recordExecution("get_user_calls", true)
		return errorResult("getting user calls: %v", err), nil, nil
	}

	recordExecution("get_user_calls", false)
	return textResult(string(calls)), nil, nil
}

// handleGetQueueCalls implements the get_queue_calls tool.
func (s *Server) handleGetQueueCalls(ctx context.Context, _ *mcp.CallToolRequest, in CallsInput) (*mcp.CallToolResult, any, error) {
	filter, err := in.filter()
	if err != nil {
		recordExecution("get_queue_calls", true)
		return errorResult("invalid arguments: %v", err), nil, nil
	}

	calls, err := s.client.QueueCalls(ctx, filter)
	if err != nil {
		recordExecution("get_queue_calls", true)
		return errorResult("getting queue calls: %v", err), nil, nil
	}

	recordExecution("get_queue_calls", false)
	return textResult(string(calls)), nil, nil
}
