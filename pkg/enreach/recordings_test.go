package enreach

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadRecording(t *testing.T) {
	audio := []byte("ID3fake-audio")

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/calls/recordings/rec-1":
			json.NewEncoder(w).Encode(map[string]string{"URL": "recordingfile/rec-1"})
		case "/recordingfile/rec-1":
			w.Write(audio)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	dir := filepath.Join(t.TempDir(), "recordings")
	path, err := client.DownloadRecording(context.Background(), "rec-1", dir)
	if err != nil {
		t.Fatalf("DownloadRecording() failed: %v", err)
	}
	if path != filepath.Join(dir, "rec-1.mp3") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != string(audio) {
		t.Errorf("saved content = %q, want %q", data, audio)
	}
}

func TestDownloadRecordingMissingURL(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"RecordingId": "rec-1"})
	}))

	if _, err := client.DownloadRecording(context.Background(), "rec-1", t.TempDir()); err == nil {
		t.Fatal("DownloadRecording() succeeded without a content URL")
	}
}

func TestRecordingNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := client.Recording(context.Background(), "rec-404"); err == nil {
		t.Fatal("Recording() succeeded against 404")
	}
}
