package enreach

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// Recording fetches recording metadata from GET /calls/recordings/{id}.
// The metadata carries a relative URL pointing at the audio content.
func (c *Client) Recording(ctx context.Context, recordingID string) (*RecordingInfo, error) {
	path := "/calls/recordings/" + url.PathEscape(recordingID)
	data, err := c.invokeRaw(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var info RecordingInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decoding recording metadata: %w", err)
	}
	if info.URL == "" {
		return nil, fmt.Errorf("recording metadata contained no content URL")
	}
	info.Raw = data
	return &info, nil
}

// DownloadRecording fetches a recording's audio and writes it to
// {dir}/{recordingID}.mp3, creating the directory if needed. It returns
// the path of the written file.
func (c *Client) DownloadRecording(ctx context.Context, recordingID, dir string) (string, error) {
	info, err := c.Recording(ctx, recordingID)
	if err != nil {
		return "", err
	}

	audioURL := c.endpoint + "/" + info.URL
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating audio request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.SetBasicAuth(c.user, c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", mapNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", mapHTTPError(resp)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating recordings directory: %w", err)
	}

	filePath := filepath.Join(dir, recordingID+".mp3")
	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("creating recording file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing recording file: %w", err)
	}

	return filePath, nil
}
