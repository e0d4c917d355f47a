package enreach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/enreach/enreachvoice-mcp/pkg/debug"
	"github.com/enreach/enreachvoice-mcp/pkg/observability"
)

// DefaultDiscoveryURL is the EnreachVoice service discovery endpoint.
const DefaultDiscoveryURL = "https://discover.enreachvoice.com"

// userAgent identifies this client to the EnreachVoice API.
const userAgent = "enreachvoice-mcp-go/1.0"

// Config holds the settings for an EnreachVoice API client.
type Config struct {
	// User is the EnreachVoice API username (required).
	User string

	// SecretKey authenticates API requests. If empty, Password must be
	// set and Connect exchanges it for a secret key.
	SecretKey string

	// Password is exchanged for a secret key via POST /authuser/{user}
	// when SecretKey is empty.
	Password string

	// Endpoint is the API base URL. If empty, the endpoint is resolved
	// through the discovery service at Connect time.
	Endpoint string

	// DiscoveryURL overrides the discovery service URL. Defaults to
	// DefaultDiscoveryURL.
	DiscoveryURL string

	// Timeout for individual HTTP requests. Defaults to 30s.
	Timeout time.Duration

	// HTTPClient allows injecting a custom HTTP client (useful for
	// testing). If nil, a client with Timeout is used.
	HTTPClient *http.Client
}

// Client performs authenticated requests against an EnreachVoice tenant.
// Create with New, then call Connect before using the typed accessors.
type Client struct {
	httpClient   *http.Client
	user         string
	secretKey    string
	password     string
	endpoint     string
	discoveryURL string

	userID string
}

// New creates a Client from the given configuration. The configuration
// must carry a user and either a secret key or a password.
func New(cfg Config) (*Client, error) {
	if cfg.User == "" {
		return nil, fmt.Errorf("enreach: User is required")
	}
	if cfg.SecretKey == "" && cfg.Password == "" {
		return nil, fmt.Errorf("enreach: either SecretKey or Password is required")
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	discoveryURL := cfg.DiscoveryURL
	if discoveryURL == "" {
		discoveryURL = DefaultDiscoveryURL
	}

	return &Client{
		httpClient:   httpClient,
		user:         cfg.User,
		secretKey:    cfg.SecretKey,
		password:     cfg.Password,
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		discoveryURL: strings.TrimRight(discoveryURL, "/"),
	}, nil
}

// Connect prepares the client for use: it resolves the API endpoint via
// the discovery service (unless one was configured), exchanges a password
// for a secret key when needed, and fetches the authenticated user's ID.
func (c *Client) Connect(ctx context.Context) error {
	if c.endpoint == "" {
		endpoint, err := c.discoverEndpoint(ctx)
		if err != nil {
			return fmt.Errorf("discovering API endpoint: %w", err)
		}
		c.endpoint = endpoint
		debug.Log("api", "endpoint discovered", "endpoint", endpoint)
	}

	if c.secretKey == "" {
		secret, err := c.AuthenticateWithPassword(ctx, c.password)
		if err != nil {
			return fmt.Errorf("authenticating with password: %w", err)
		}
		c.secretKey = secret
	}

	var user User
	if err := c.invoke(ctx, http.MethodGet, "/users/me", nil, nil, &user); err != nil {
		return fmt.Errorf("fetching user identity: %w", err)
	}
	c.userID = user.ID
	debug.Log("api", "connected", "user_id", c.userID)
	return nil
}

// Endpoint returns the resolved API base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// UserID returns the authenticated user's ID. Empty before Connect.
func (c *Client) UserID() string {
	return c.userID
}

// discoverEndpoint resolves the API base URL for the configured user via
// the discovery service. Trailing slashes are trimmed from the result.
func (c *Client) discoverEndpoint(ctx context.Context) (string, error) {
	discoveryURL := fmt.Sprintf("%s/api/user?user=%s", c.discoveryURL, url.QueryEscape(c.user))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating discovery request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", mapNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", mapHTTPError(resp)
	}

	var entries []struct {
		APIEndpoint string `json:"apiEndpoint"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", fmt.Errorf("decoding discovery response: %w", err)
	}
	if len(entries) == 0 || entries[0].APIEndpoint == "" {
		return "", fmt.Errorf("discovery returned no endpoint for user")
	}

	return strings.TrimRight(entries[0].APIEndpoint, "/"), nil
}

// AuthenticateWithPassword exchanges the user's password for an API secret
// key via POST /authuser/{user}. The secret key is returned, not stored;
// Connect stores it when it performs the exchange itself.
func (c *Client) AuthenticateWithPassword(ctx context.Context, password string) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("endpoint not resolved")
	}

	payload, err := json.Marshal(map[string]string{
		"UserName": c.user,
		"Password": password,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling auth request: %w", err)
	}

	authURL := fmt.Sprintf("%s/authuser/%s", c.endpoint, url.PathEscape(c.user))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating auth request: %w", err)
	}
	setStandardHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", mapNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", mapHTTPError(resp)
	}

	var result struct {
		SecretKey string `json:"SecretKey"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding auth response: %w", err)
	}
	if result.SecretKey == "" {
		return "", fmt.Errorf("auth response contained no secret key")
	}

	return result.SecretKey, nil
}

// Queues returns all queues visible to the authenticated user.
func (c *Client) Queues(ctx context.Context) ([]Queue, error) {
	var queues []Queue
	if err := c.invoke(ctx, http.MethodGet, "/queues", nil, nil, &queues); err != nil {
		return nil, err
	}
	return queues, nil
}

// Directories returns all directories visible to the authenticated user.
func (c *Client) Directories(ctx context.Context) ([]Directory, error) {
	var dirs []Directory
	if err := c.invoke(ctx, http.MethodGet, "/directory", nil, nil, &dirs); err != nil {
		return nil, err
	}
	return dirs, nil
}

// DirectoryEntries lists the entries of a single directory, narrowed by
// the given filter.
func (c *Client) DirectoryEntries(ctx context.Context, directoryID string, filter EntryFilter) ([]DirectoryEntry, error) {
	query := url.Values{}
	if filter.EntryTypes != "" {
		query.Set("EntryTypes", filter.EntryTypes)
	}
	if filter.Number != "" {
		query.Set("Number", filter.Number)
	}
	if filter.MaxCount > 0 {
		query.Set("MaxCount", strconv.Itoa(filter.MaxCount))
	}

	var resp directoryEntriesResponse
	path := "/directory/" + url.PathEscape(directoryID)
	if err := c.invoke(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// invoke performs an authenticated JSON request against the API and
// decodes the response body into out (which may be nil to discard it).
func (c *Client) invoke(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	data, err := c.invokeRaw(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// invokeRaw performs an authenticated request and returns the raw response
// body. Non-2xx statuses are mapped to *APIError.
func (c *Client) invokeRaw(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("endpoint not resolved, call Connect first")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	requestURL := c.endpoint + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling request payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	setStandardHeaders(req)
	req.SetBasicAuth(c.user, c.secretKey)

	requestID := uuid.NewString()
	debug.Log("api", "request", "request_id", requestID, "method", method, "path", path)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		observability.APIRequestsTotal.WithLabelValues(method, path, "network_error").Inc()
		return nil, mapNetworkError(err)
	}
	defer resp.Body.Close()

	observability.APIRequestsTotal.WithLabelValues(method, path, strconv.Itoa(resp.StatusCode)).Inc()
	observability.APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	debug.Log("api", "response", "request_id", requestID, "status", resp.StatusCode, "duration_ms", duration.Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapHTTPError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if debug.TraceIsEnabled("api") {
		debug.Raw("api", string(data))
	}
	return data, nil
}

// setStandardHeaders applies the headers the EnreachVoice API expects on
// every JSON request.
func setStandardHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Json-Serializer", "2")
	req.Header.Set("User-Agent", userAgent)
}
