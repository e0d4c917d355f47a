package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/enreach/enreachvoice-mcp/pkg/enreach"
)

// backendHandler serves a minimal fake EnreachVoice API for the full
// client-to-tool path.
func backendHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"Id": "user-1"})
	})

	mux.HandleFunc("GET /queues", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"Id":      "queue-sales",
				"Name":    "Sales",
				"TypeId":  4,
				"Numbers": []string{"+358501234567"},
				"Status": map[string]int{
					"OpenStatus":    5,
					"QueueLength":   2,
					"OngoingCalls":  1,
					"FreeAgents":    3,
					"ServingAgents": 1,
				},
			},
			{"Id": "queue-ivr", "Name": "IVR", "TypeId": 5, "Status": nil},
		})
	})

	mux.HandleFunc("GET /directory", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{
			{"ID": "dir-1", "Name": "Default"},
		})
	})

	mux.HandleFunc("GET /directory/dir-1", func(w http.ResponseWriter, r *http.Request) {
		if number := r.URL.Query().Get("Number"); number != "" {
			json.NewEncoder(w).Encode(map[string]any{
				"Entries": []map[string]string{
					{
						"Id":         "entry-1",
						"FirstName":  "Maija",
						"LastName":   "Meikäläinen",
						"Email":      "maija@example.com",
						"WorkNumber": number,
					},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"Entries": []map[string]string{
				{"Id": "entry-q", "QueueId": "queue-sales", "Description": "Sales hotline"},
			},
		})
	})

	mux.HandleFunc("GET /calls", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"CallId": "call-1", "Duration": 42},
		})
	})

	mux.HandleFunc("GET /servicecall", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"CallId": "call-2", "QueueId": "queue-sales"},
		})
	})

	mux.HandleFunc("GET /calls/transcripts/tr-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"TranscriptId":     "tr-1",
			"TranscriptStatus": "Done",
		})
	})

	return mux
}

// setupSession builds the full stack: fake backend, connected client,
// tool server, and an MCP client session over in-memory transports.
func setupSession(t *testing.T, handler http.Handler) *mcp.ClientSession {
	t.Helper()

	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	client, err := enreach.New(enreach.Config{
		User:      "api@example.com",
		SecretKey: "s3cret",
		Endpoint:  backend.URL,
	})
	if err != nil {
		t.Fatalf("enreach.New() failed: %v", err)
	}

	ctx := context.Background()
	srv := New(client, Config{
		TranscriptPollInterval: time.Millisecond,
		RecordingsDir:          t.TempDir(),
	}).MCPServer("test")

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	go func() {
		_ = srv.Run(ctx, serverTransport)
	}()

	mcpClient := mcp.NewClient(&mcp.Implementation{Name: "test-host", Version: "1.0.0"}, nil)
	session, err := mcpClient.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })

	return session
}

// textContent extracts the first text block from a tool result.
func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, not *mcp.TextContent", result.Content[0])
	}
	return tc.Text
}

func TestToolsAreListed(t *testing.T) {
	session := setupSession(t, backendHandler(t))

	want := map[string]bool{
		"get_queues":      false,
		"find_contact":    false,
		"get_user_calls":  false,
		"get_queue_calls": false,
		"get_transcript":  false,
		"save_recording":  false,
	}

	for tool, err := range session.Tools(context.Background(), nil) {
		if err != nil {
			t.Fatalf("listing tools: %v", err)
		}
		if _, ok := want[tool.Name]; ok {
			want[tool.Name] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("tool %q not listed", name)
		}
	}
}

func TestGetQueues(t *testing.T) {
	session := setupSession(t, backendHandler(t))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "get_queues",
	})
	if err != nil {
		t.Fatalf("CallTool() failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("got error result: %s", textContent(t, result))
	}

	var summaries []QueueSummary
	if err := json.Unmarshal([]byte(textContent(t, result)), &summaries); err != nil {
		t.Fatalf("result not valid JSON: %v", err)
	}
	// The status-less IVR queue is skipped.
	if len(summaries) != 1 {
		t.Fatalf("got %d queues, want 1", len(summaries))
	}

	q := summaries[0]
	if q.ID != "queue-sales" || q.Type != "ServiceQueue" || q.OpenStatus != "Open" {
		t.Errorf("queue = %+v", q)
	}
	if q.Description != "Sales hotline" {
		t.Errorf("description = %q, want directory description", q.Description)
	}
	if q.Number != "+358501234567" {
		t.Errorf("number = %q", q.Number)
	}
}

// TestGetQueuesSurvivesDirectoryFailure verifies the directory lookup is
// enrichment only: queue listing still works when it fails.
func TestGetQueuesSurvivesDirectoryFailure(t *testing.T) {
	mux := http.NewServeMux()
	base, ok := backendHandler(t).(*http.ServeMux)
	if !ok {
		t.Fatal("backendHandler is not a mux")
	}
	mux.HandleFunc("GET /directory", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.Handle("/", base)

	session := setupSession(t, mux)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "get_queues",
	})
	if err != nil {
		t.Fatalf("CallTool() failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("got error result: %s", textContent(t, result))
	}

	var summaries []QueueSummary
	if err := json.Unmarshal([]byte(textContent(t, result)), &summaries); err != nil {
		t.Fatalf("result not valid JSON: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Description != "" {
		t.Errorf("summaries = %+v", summaries)
	}
}

// TestBackendErrorBecomesErrorResult covers the spec contract: a 4xx/5xx
// remote response surfaces as an error tool result, not a crash.
func TestBackendErrorBecomesErrorResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /queues", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"Message": "backend exploded"})
	})

	session := setupSession(t, mux)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "get_queues",
	})
	if err != nil {
		t.Fatalf("CallTool() returned protocol error: %v", err)
	}
	if !result.IsError {
		t.Fatal("result.IsError = false, want true")
	}
	if !strings.Contains(textContent(t, result), "backend exploded") {
		t.Errorf("error output = %q", textContent(t, result))
	}

	// The session must remain usable after a failed tool call.
	if _, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "get_queues",
	}); err != nil {
		t.Fatalf("session unusable after error result: %v", err)
	}
}

func TestFindContact(t *testing.T) {
	session := setupSession(t, backendHandler(t))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "find_contact",
		Arguments: map[string]any{"number": "+358401112222"},
	})
	if err != nil {
		t.Fatalf("CallTool() failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("got error result: %s", textContent(t, result))
	}

	var contacts []Contact
	if err := json.Unmarshal([]byte(textContent(t, result)), &contacts); err != nil {
		t.Fatalf("result not valid JSON: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("got %d contacts, want 1", len(contacts))
	}
	if contacts[0].Name != "Maija Meikäläinen" {
		t.Errorf("name = %q", contacts[0].Name)
	}
}

func TestFindContactEmptyNumber(t *testing.T) {
	session := setupSession(t, backendHandler(t))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "find_contact",
		Arguments: map[string]any{"number": "  "},
	})
	if err != nil {
		t.Fatalf("CallTool() failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("result.IsError = false for empty number")
	}
}

func TestGetUserCalls(t *testing.T) {
	session := setupSession(t, backendHandler(t))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "get_user_calls",
		Arguments: map[string]any{
			"start_time": "2026-08-01 06:00:00",
			"end_time":   "2026-08-02 06:00:00",
		},
	})
	if err != nil {
		t.Fatalf("CallTool() failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("got error result: %s", textContent(t, result))
	}
	if !strings.Contains(textContent(t, result), "call-1") {
		t.Errorf("output = %q", textContent(t, result))
	}
}

func TestGetUserCallsRejectsMissingFilter(t *testing.T) {
	session := setupSession(t, backendHandler(t))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_user_calls",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("CallTool() failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("result.IsError = false for missing filter")
	}
}

func TestGetQueueCalls(t *testing.T) {
	session := setupSession(t, backendHandler(t))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "get_queue_calls",
		Arguments: map[string]any{
			"start_time": "2026-08-01T06:00:00Z",
			"end_time":   "2026-08-01T18:00:00Z",
		},
	})
	if err != nil {
		t.Fatalf("CallTool() failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("got error result: %s", textContent(t, result))
	}
	if !strings.Contains(textContent(t, result), "call-2") {
		t.Errorf("output = %q", textContent(t, result))
	}
}

func TestGetTranscript(t *testing.T) {
	session := setupSession(t, backendHandler(t))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_transcript",
		Arguments: map[string]any{"transcript_id": "tr-1"},
	})
	if err != nil {
		t.Fatalf("CallTool() failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("got error result: %s", textContent(t, result))
	}
	if !strings.Contains(textContent(t, result), "Done") {
		t.Errorf("output = %q", textContent(t, result))
	}
}

func TestQueuesResource(t *testing.T) {
	session := setupSession(t, backendHandler(t))

	result, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{
		URI: "data://queues",
	})
	if err != nil {
		t.Fatalf("ReadResource() failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(result.Contents))
	}

	var summaries []QueueSummary
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &summaries); err != nil {
		t.Fatalf("resource not valid JSON: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "queue-sales" {
		t.Errorf("summaries = %+v", summaries)
	}
}
