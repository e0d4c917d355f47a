package enreach

import "encoding/json"

// Queue is a queue record from GET /queues. Field names follow the
// EnreachVoice wire format.
type Queue struct {
	ID      string       `json:"Id"`
	Name    string       `json:"Name"`
	TypeID  int          `json:"TypeId"`
	Numbers []string     `json:"Numbers"`
	Status  *QueueStatus `json:"Status"`
}

// QueueStatus is the realtime status block attached to a queue.
// Queues without realtime reporting have a nil status.
type QueueStatus struct {
	OpenStatus     int `json:"OpenStatus"`
	MaxWaitTime    int `json:"MaxWaitTime"`
	QueueLength    int `json:"QueueLength"`
	OngoingCalls   int `json:"OngoingCalls"`
	AgentsOnWrapUp int `json:"AgentsOnWrapUp"`
	FreeAgents     int `json:"FreeAgents"`
	ServingAgents  int `json:"ServingAgents"`
}

// Directory is a directory record from GET /directory.
type Directory struct {
	ID   string `json:"ID"`
	Name string `json:"Name"`
}

// DirectoryEntry is a single entry from GET /directory/{id}.
type DirectoryEntry struct {
	ID           string `json:"Id"`
	QueueID      string `json:"QueueId"`
	FirstName    string `json:"FirstName"`
	LastName     string `json:"LastName"`
	Email        string `json:"Email"`
	WorkNumber   string `json:"WorkNumber"`
	MobileNumber string `json:"MobileNumber"`
	OtherNumber  string `json:"OtherNumber"`
	Description  string `json:"Description"`
	Company      string `json:"Company"`
	Subcompany   string `json:"Subcompany"`
	Location     string `json:"Location"`
	Department   string `json:"Department"`
}

// DisplayName assembles a human-readable name from the entry's name parts.
func (e DirectoryEntry) DisplayName() string {
	if e.FirstName != "" && e.LastName != "" {
		return e.FirstName + " " + e.LastName
	}
	if e.LastName != "" {
		return e.LastName
	}
	return e.FirstName
}

// directoryEntriesResponse wraps the entry list returned by GET /directory/{id}.
type directoryEntriesResponse struct {
	Entries []DirectoryEntry `json:"Entries"`
}

// EntryFilter narrows a directory entry listing. Zero-value fields are
// omitted from the query.
type EntryFilter struct {
	// EntryTypes selects entry categories, e.g. "2" for service queues.
	EntryTypes string

	// Number matches entries by phone number.
	Number string

	// MaxCount caps the number of returned entries.
	MaxCount int
}

// User is the authenticated user record from GET /users/me.
type User struct {
	ID string `json:"Id"`
}

// RecordingInfo is the metadata record from GET /calls/recordings/{id}.
// URL is relative to the API endpoint and serves the audio content.
type RecordingInfo struct {
	URL string `json:"URL"`

	// Raw preserves the full metadata payload.
	Raw json.RawMessage `json:"-"`
}

// TranscriptStatusPending marks a transcript that is not ready yet.
const TranscriptStatusPending = "Pending"

// Transcript is a call transcript from GET /calls/transcripts/{id}.
// The payload beyond the status field is passed through verbatim in Raw.
type Transcript struct {
	Status string `json:"TranscriptStatus"`

	// Raw preserves the full transcript payload.
	Raw json.RawMessage `json:"-"`
}

// Pending reports whether the transcript is still being produced.
func (t *Transcript) Pending() bool {
	return t.Status == TranscriptStatusPending
}
