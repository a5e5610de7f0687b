// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/collab-foundation/collab/lib/netutil"
	"github.com/collab-foundation/collab/lib/ref"
	"github.com/collab-foundation/collab/lib/secret"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// ServerURL is the base URL of the Matrix homeserver
	// (e.g., "http://chat:8008").
	ServerURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is the stateless transport against the homeserver. It holds
// no credentials: authenticated calls take the access token per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// transactionCounter generates unique transaction IDs for
	// idempotent sends.
	transactionCounter atomic.Int64
}

// NewClient creates a new transport for the given homeserver.
func NewClient(config ClientConfig) (*Client, error) {
	if config.ServerURL == "" {
		return nil, fmt.Errorf("messaging: ServerURL is required")
	}

	// Validate the URL structure. We store the string form (with
	// trailing slash stripped) and build request URLs by direct
	// concatenation. This avoids double-encoding issues with Go's
	// url.URL.String(), which re-encodes Path even when RawPath is set
	// if it doesn't consider RawPath a valid encoding of Path.
	if _, err := url.Parse(config.ServerURL); err != nil {
		return nil, fmt.Errorf("messaging: invalid ServerURL %q: %w", config.ServerURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.ServerURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's connection pool. Call this after a network disruption to
// force subsequent requests to establish fresh TCP connections instead
// of reusing a poisoned pooled connection.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Login authenticates with the password grant. The response is returned
// as-is: an empty AccessToken is not an error at this layer.
func (c *Client) Login(ctx context.Context, request LoginRequest) (*AuthResponse, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/_matrix/client/v3/login", nil, request)
	if err != nil {
		return nil, fmt.Errorf("messaging: login failed: %w", err)
	}

	var response AuthResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse login response: %w", err)
	}

	c.logger.Debug("logged in to homeserver",
		"user_id", response.UserID,
		"device_id", response.DeviceID,
	)
	return &response, nil
}

// ResolveAlias resolves a room alias (e.g., "#development_collab:collab.local")
// to a room ID via the directory endpoint. A response without a room_id
// yields a zero RoomID, not an error at this layer.
func (c *Client) ResolveAlias(ctx context.Context, accessToken *secret.Buffer, alias ref.RoomAlias) (*ResolveAliasResponse, error) {
	path := "/_matrix/client/v3/directory/room/" + escapeAlias(alias)
	body, err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: resolve alias %q failed: %w", alias, err)
	}

	var response ResolveAliasResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse resolve alias response: %w", err)
	}
	return &response, nil
}

// RoomMessages fetches messages from a room with pagination.
func (c *Client) RoomMessages(ctx context.Context, accessToken *secret.Buffer, roomID ref.RoomID, options RoomMessagesOptions) (*RoomMessagesResponse, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/messages", url.PathEscape(roomID.String()))

	query := url.Values{}
	if options.From != "" {
		query.Set("from", options.From)
	}
	direction := options.Direction
	if direction == "" {
		direction = "b" // backward (newest first) by default
	}
	query.Set("dir", direction)
	if options.Limit > 0 {
		query.Set("limit", strconv.Itoa(options.Limit))
	}

	body, err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, query)
	if err != nil {
		return nil, fmt.Errorf("messaging: room messages for %q failed: %w", roomID, err)
	}

	var response RoomMessagesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse messages response: %w", err)
	}
	return &response, nil
}

// Sync performs an incremental sync with the homeserver. For initial
// sync, leave options.Since empty. For long-polling, set
// options.Timeout to the desired wait in milliseconds.
func (c *Client) Sync(ctx context.Context, accessToken *secret.Buffer, options SyncOptions) (*SyncResponse, error) {
	query := url.Values{}
	if options.Since != "" {
		query.Set("since", options.Since)
	}
	if options.SetTimeout {
		query.Set("timeout", strconv.Itoa(options.Timeout))
	}
	if options.Filter != "" {
		query.Set("filter", options.Filter)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/sync", accessToken, nil, query)
	if err != nil {
		return nil, fmt.Errorf("messaging: sync failed: %w", err)
	}

	var response SyncResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse sync response: %w", err)
	}
	return &response, nil
}

// SendMessage sends an m.room.message event to a room using Matrix's
// idempotent PUT with a per-send transaction ID.
func (c *Client) SendMessage(ctx context.Context, accessToken *secret.Buffer, roomID ref.RoomID, content MessageContent) (*SendEventResponse, error) {
	transactionID := c.nextTransactionID()
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/send/%s/%s",
		url.PathEscape(roomID.String()),
		url.PathEscape(EventTypeMessage),
		url.PathEscape(transactionID),
	)

	body, err := c.doRequest(ctx, http.MethodPut, path, accessToken, content)
	if err != nil {
		return nil, fmt.Errorf("messaging: send message to %q failed: %w", roomID, err)
	}

	var response SendEventResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse send response: %w", err)
	}
	return &response, nil
}

// doRequest performs an HTTP request to the homeserver and returns the
// response body. On 2xx, returns the body. On any other status, returns
// a *MatrixError carrying the status code and the server's error
// message (or the raw body text when the body is not JSON).
// accessToken may be nil for unauthenticated endpoints. query may be
// omitted for endpoints without query parameters.
func (c *Client) doRequest(ctx context.Context, method, path string, accessToken *secret.Buffer, requestBody any, query ...url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 && query[0] != nil {
		requestURL += "?" + query[0].Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("messaging: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("messaging: failed to create request: %w", err)
	}

	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if accessToken != nil {
		request.Header.Set("Authorization", "Bearer "+accessToken.String())
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		// Connection-level failure (DNS, refused, timeout). Wrapped
		// plainly so errors.As(*MatrixError) stays false.
		return nil, fmt.Errorf("messaging: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("messaging: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// All spec-compliant Matrix error responses use the same JSON
	// shape. A non-JSON body surfaces as the raw text.
	var matrixErr MatrixError
	if jsonErr := json.Unmarshal(responseBody, &matrixErr); jsonErr != nil || (matrixErr.Code == "" && matrixErr.Message == "") {
		matrixErr = MatrixError{Message: string(responseBody)}
	}
	matrixErr.StatusCode = response.StatusCode

	return nil, &matrixErr
}

// escapeAlias percent-encodes a room alias for use as a URL path
// segment, escaping the '#' alias marker and the ':' server separator.
func escapeAlias(alias ref.RoomAlias) string {
	return strings.NewReplacer("#", "%23", ":", "%3A").Replace(alias.String())
}

// nextTransactionID generates a unique transaction ID for idempotent
// event sending. Format: "collab-<timestamp_ms>-<counter>" so IDs stay
// unique across process restarts.
func (c *Client) nextTransactionID() string {
	counter := c.transactionCounter.Add(1)
	return fmt.Sprintf("collab-%d-%d", time.Now().UnixMilli(), counter)
}
