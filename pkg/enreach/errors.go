package enreach

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	ErrorTypeAuth           ErrorType = "authentication_error"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeRateLimited    ErrorType = "too_many_requests"
	ErrorTypeServer         ErrorType = "server_error"
	ErrorTypeNetwork        ErrorType = "network_error"
)

// APIError represents a failed EnreachVoice API call with a categorized
// type, the HTTP status code (0 for network-level failures), and a message.
type APIError struct {
	Type    ErrorType
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Type, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// mapHTTPError converts a non-2xx HTTP response into an APIError,
// extracting a descriptive message from the response body when present.
func mapHTTPError(resp *http.Response) *APIError {
	message := extractErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		if message == "" {
			message = "invalid request"
		}
		return &APIError{Type: ErrorTypeInvalidRequest, Status: resp.StatusCode, Message: message}

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "authentication failed"
		}
		return &APIError{Type: ErrorTypeAuth, Status: resp.StatusCode, Message: message}

	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "resource not found"
		}
		return &APIError{Type: ErrorTypeNotFound, Status: resp.StatusCode, Message: message}

	case resp.StatusCode == http.StatusTooManyRequests:
		if message == "" {
			message = "rate limit exceeded"
		}
		return &APIError{Type: ErrorTypeRateLimited, Status: resp.StatusCode, Message: message}

	default:
		if message == "" {
			message = "API request failed"
		}
		return &APIError{Type: ErrorTypeServer, Status: resp.StatusCode, Message: message}
	}
}

// mapNetworkError converts a network-level error (connection refused,
// timeout, DNS failure) into an APIError.
func mapNetworkError(err error) *APIError {
	return &APIError{Type: ErrorTypeNetwork, Message: err.Error()}
}

// extractErrorMessage tries to parse the response body as a JSON error
// payload and returns the message if found. The EnreachVoice API returns
// either {"Message": ...} or a bare string.
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var structured struct {
		Message string `json:"Message"`
	}
	if err := json.Unmarshal(data, &structured); err == nil && structured.Message != "" {
		return structured.Message
	}

	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		return plain
	}

	return ""
}
