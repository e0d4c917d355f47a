// Command mock-backend runs a deterministic fake EnreachVoice API for
// testing the MCP server without a live tenant. It serves discovery,
// queues, directories, call history, transcript, and recording endpoints
// with fixed fixture data.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
//
// Point the server at it with:
//
//	ENREACHVOICE_ENDPOINT=http://localhost:9090
//	ENREACHVOICE_APIUSER=demo ENREACHVOICE_APISECRET=demo-secret
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user", handleDiscovery(port))
	mux.HandleFunc("POST /authuser/{user}", handleAuthUser)
	mux.HandleFunc("GET /users/me", handleMe)
	mux.HandleFunc("GET /queues", handleQueues)
	mux.HandleFunc("GET /directory", handleDirectories)
	mux.HandleFunc("GET /directory/{id}", handleDirectoryEntries)
	mux.HandleFunc("GET /calls", handleCalls)
	mux.HandleFunc("GET /servicecall", handleServiceCalls)
	mux.HandleFunc("GET /calls/transcripts/{id}", handleTranscript)
	mux.HandleFunc("GET /calls/recordings/{id}", handleRecording)
	mux.HandleFunc("GET /recordingfile/{id}", handleRecordingFile)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// handleDiscovery mimics the discovery service, pointing back at this
// mock so a single process serves both roles.
func handleDiscovery(port string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user") == "" {
			http.Error(w, `"user parameter required"`, http.StatusBadRequest)
			return
		}
		writeJSON(w, []map[string]string{
			{"apiEndpoint": fmt.Sprintf("http://localhost:%s/", port)},
		})
	}
}

func handleAuthUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName string `json:"UserName"`
		Password string `json:"Password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		http.Error(w, `{"Message":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]string{"SecretKey": "mock-secret-key"})
}

func handleMe(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(w, r) {
		return
	}
	writeJSON(w, map[string]string{"Id": "user-0001"})
}

func handleQueues(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(w, r) {
		return
	}
	writeJSON(w, []map[string]any{
		{
			"Id":      "queue-sales",
			"Name":    "Sales",
			"TypeId":  4,
			"Numbers": []string{"+358501234567"},
			"Status": map[string]int{
				"OpenStatus":     5,
				"MaxWaitTime":    120,
				"QueueLength":    2,
				"OngoingCalls":   3,
				"AgentsOnWrapUp": 1,
				"FreeAgents":     4,
				"ServingAgents":  3,
			},
		},
		{
			"Id":      "queue-support",
			"Name":    "Support",
			"TypeId":  4,
			"Numbers": []string{"+358507654321"},
			"Status": map[string]int{
				"OpenStatus":     1,
				"MaxWaitTime":    300,
				"QueueLength":    0,
				"OngoingCalls":   0,
				"AgentsOnWrapUp": 0,
				"FreeAgents":     0,
				"ServingAgents":  0,
			},
		},
		{
			// No realtime status; the server skips this one.
			"Id":     "queue-ivr",
			"Name":   "IVR Main",
			"TypeId": 5,
			"Status": nil,
		},
	})
}

func handleDirectories(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(w, r) {
		return
	}
	writeJSON(w, []map[string]string{
		{"ID": "dir-default", "Name": "Default"},
		{"ID": "dir-external", "Name": "External"},
	})
}

func handleDirectoryEntries(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(w, r) {
		return
	}

	// Number lookup returns a person entry; otherwise service queue entries.
	if number := r.URL.Query().Get("Number"); number != "" {
		if r.PathValue("id") != "dir-default" {
			writeJSON(w, map[string]any{"Entries": []any{}})
			return
		}
		writeJSON(w, map[string]any{
			"Entries": []map[string]string{
				{
					"Id":           "entry-0001",
					"FirstName":    "Maija",
					"LastName":     "Meikäläinen",
					"Email":        "maija@example.com",
					"WorkNumber":   number,
					"MobileNumber": "+358401112222",
					"Company":      "Example Oy",
					"Location":     "Helsinki",
					"Department":   "Sales",
				},
			},
		})
		return
	}

	writeJSON(w, map[string]any{
		"Entries": []map[string]string{
			{
				"Id":          "entry-q-sales",
				"QueueId":     "queue-sales",
				"Description": "Sales hotline, weekdays 8-16",
			},
			{
				"Id":          "entry-q-support",
				"QueueId":     "queue-support",
				"Description": "Technical support",
			},
		},
	})
}

func handleCalls(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(w, r) {
		return
	}
	if !hasWindow(r) && r.URL.Query().Get("CallId") == "" {
		http.Error(w, `{"Message":"filter required"}`, http.StatusBadRequest)
		return
	}
	writeJSON(w, []map[string]any{
		{
			"CallId":    "call-0001",
			"Direction": "Inbound",
			"ANum":      "+358401112222",
			"BNum":      "+358501234567",
			"StartTime": "2026-08-28 09:15:00",
			"Duration":  184,
		},
	})
}

func handleServiceCalls(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(w, r) {
		return
	}
	if !hasWindow(r) {
		http.Error(w, `{"Message":"filter required"}`, http.StatusBadRequest)
		return
	}
	writeJSON(w, []map[string]any{
		{
			"CallId":    "call-0002",
			"QueueId":   "queue-sales",
			"ANum":      "+358409998888",
			"WaitTime":  35,
			"StartTime": "2026-08-28 10:02:00",
			"Result":    "Answered",
		},
	})
}

// transcriptFetches makes the first transcript fetch return Pending so
// the polling path is exercised.
var transcriptFetches atomic.Int64

func handleTranscript(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(w, r) {
		return
	}
	if transcriptFetches.Add(1) == 1 {
		writeJSON(w, map[string]string{
			"TranscriptId":     r.PathValue("id"),
			"TranscriptStatus": "Pending",
		})
		return
	}
	writeJSON(w, map[string]any{
		"TranscriptId":     r.PathValue("id"),
		"TranscriptStatus": "Done",
		"Sections": []map[string]string{
			{"Speaker": "Agent", "Text": "Thank you for calling, how can I help?"},
			{"Speaker": "Caller", "Text": "I have a question about my invoice."},
		},
	})
}

func handleRecording(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(w, r) {
		return
	}
	writeJSON(w, map[string]string{
		"RecordingId": r.PathValue("id"),
		"URL":         "recordingfile/" + r.PathValue("id"),
	})
}

func handleRecordingFile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "audio/mpeg")
	// Not a real mp3; enough to verify the download path.
	w.Write([]byte("ID3mock-audio-content"))
}

// checkAuth enforces basic auth the way the real API does. The mock
// accepts any non-empty credential pair.
func checkAuth(w http.ResponseWriter, r *http.Request) bool {
	user, secret, ok := r.BasicAuth()
	if !ok || user == "" || secret == "" {
		http.Error(w, `{"Message":"authentication required"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

// hasWindow reports whether the request carries either time window pair.
func hasWindow(r *http.Request) bool {
	q := r.URL.Query()
	if q.Get("StartTime") != "" && q.Get("EndTime") != "" {
		return true
	}
	return q.Get("ModifiedAfter") != "" && q.Get("ModifiedBefore") != ""
}
