package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/enreach/enreachvoice-mcp/pkg/debug"
	"github.com/enreach/enreachvoice-mcp/pkg/enreach"
)

// Queue type IDs, per the queue information API docs.
var queueTypes = map[int]string{
	1: "UserDirect",
	2: "PersonalWork",
	4: "ServiceQueue",
	5: "IvrQueue",
	6: "ShortNumber",
	7: "Technical",
}

// Queue open status codes, per the queue open status API docs.
var queueOpenStatus = map[int]string{
	0: "Dynamic",
	1: "Closed",
	2: "Dynamic",
	3: "Closed",
	4: "Dynamic",
	5: "Open",
	6: "Dynamic",
}

// serviceQueueEntryType selects service queue entries in directory listings.
const serviceQueueEntryType = "2"

// QueueSummary is the tool-facing queue shape: realtime status merged with
// the queue's directory description.
type QueueSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Description    string `json:"description,omitempty"`
	Number         string `json:"number,omitempty"`
	OpenStatus     string `json:"openstatus"`
	MaxWaitTime    int    `json:"maxwaittime"`
	QueueLength    int    `json:"queuelength"`
	OngoingCalls   int    `json:"ongoingcalls"`
	AgentsOnWrapUp int    `json:"agentsonwrapup"`
	FreeAgents     int    `json:"freeagents"`
	ServingAgents  int    `json:"servingagents"`
}

// handleGetQueues implements the get_queues tool.
func (s *Server) handleGetQueues(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	summaries, err := s.queueSummaries(ctx)
	if err != nil {
		recordExecution("get_queues", true)
		return errorResult("getting queues: %v", err), nil, nil
	}

	recordExecution("get_queues", false)
	result, err := jsonResult(summaries)
	if err != nil {
		return nil, nil, err
	}
	return result, nil, nil
}

// readQueuesResource serves the data://queues resource with the same
// content as the get_queues tool.
func (s *Server) readQueuesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	summaries, err := s.queueSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting queues: %w", err)
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling queues: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      "data://queues",
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

// queueSummaries fetches all queues and merges in directory descriptions.
// Queues without a realtime status block are skipped.
func (s *Server) queueSummaries(ctx context.Context) ([]QueueSummary, error) {
	queues, err := s.client.Queues(ctx)
	if err != nil {
		return nil, err
	}

	// Directory descriptions are enrichment only. A directory failure
	// must not break the queue listing.
	descriptions, err := s.queueDescriptions(ctx)
	if err != nil {
		debug.Log("tools", "queue directory lookup failed", "error", err)
		descriptions = nil
	}

	summaries := make([]QueueSummary, 0, len(queues))
	for _, q := range queues {
		if q.Status == nil {
			continue
		}

		summary := QueueSummary{
			ID:             q.ID,
			Name:           q.Name,
			Type:           queueTypeName(q.TypeID),
			Description:    descriptions[q.ID],
			OpenStatus:     openStatusName(q.Status.OpenStatus),
			MaxWaitTime:    q.Status.MaxWaitTime,
			QueueLength:    q.Status.QueueLength,
			OngoingCalls:   q.Status.OngoingCalls,
			AgentsOnWrapUp: q.Status.AgentsOnWrapUp,
			FreeAgents:     q.Status.FreeAgents,
			ServingAgents:  q.Status.ServingAgents,
		}
		if len(q.Numbers) > 0 {
			summary.Number = q.Numbers[0]
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// queueDescriptions returns a queue-ID-to-description map built from the
// service queue entries of the configured default directory.
func (s *Server) queueDescriptions(ctx context.Context) (map[string]string, error) {
	directories, err := s.client.Directories(ctx)
	if err != nil {
		return nil, err
	}

	var directoryID string
	for _, d := range directories {
		if d.Name == s.cfg.DefaultDirectory {
			directoryID = d.ID
			break
		}
	}
	if directoryID == "" {
		return nil, fmt.Errorf("no %q directory found", s.cfg.DefaultDirectory)
	}

	entries, err := s.client.DirectoryEntries(ctx, directoryID, enreach.EntryFilter{
		EntryTypes: serviceQueueEntryType,
		MaxCount:   s.cfg.MaxDirectoryEntries,
	})
	if err != nil {
		return nil, err
	}

	descriptions := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.QueueID != "" && e.Description != "" {
			descriptions[e.QueueID] = e.Description
		}
	}
	return descriptions, nil
}

// queueTypeName maps a queue type ID to its name.
func queueTypeName(typeID int) string {
	if name, ok := queueTypes[typeID]; ok {
		return name
	}
	return "Unknown"
}

// openStatusName maps an open status code to its name.
func openStatusName(status int) string {
	if name, ok := queueOpenStatus[status]; ok {
		return name
	}
	return "Unknown"
}
