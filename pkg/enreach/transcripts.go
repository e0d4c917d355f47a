package enreach

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/enreach/enreachvoice-mcp/pkg/debug"
	"github.com/enreach/enreachvoice-mcp/pkg/observability"
)

// Transcript fetches a call transcript by ID. The returned transcript may
// still be pending; see WaitTranscript for polling until it is ready.
func (c *Client) Transcript(ctx context.Context, transcriptID string) (*Transcript, error) {
	path := "/calls/transcripts/" + url.PathEscape(transcriptID)
	data, err := c.invokeRaw(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding transcript: %w", err)
	}
	t.Raw = data
	return &t, nil
}

// WaitTranscript fetches a transcript and, while its status is Pending,
// re-fetches it every interval up to maxAttempts times. The last fetched
// transcript is returned even if still pending after the attempts are
// exhausted. Cancelling the context stops the polling.
func (c *Client) WaitTranscript(ctx context.Context, transcriptID string, interval time.Duration, maxAttempts int) (*Transcript, error) {
	t, err := c.Transcript(ctx, transcriptID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; t.Pending() && attempt < maxAttempts; attempt++ {
		observability.TranscriptPollsTotal.Inc()
		debug.Log("api", "transcript pending", "transcript_id", transcriptID, "attempt", attempt+1)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		t, err = c.Transcript(ctx, transcriptID)
		if err != nil {
			return nil, err
		}
	}

	return t, nil
}
