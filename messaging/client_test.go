// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/collab-foundation/collab/lib/ref"
	"github.com/collab-foundation/collab/lib/secret"
)

// testToken creates an access token buffer for tests. The buffer is
// automatically closed when the test completes.
func testToken(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(value)
	if err != nil {
		t.Fatalf("creating test token: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

// newTestClient creates a Client pointing at a test server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{ServerURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

// assertAuth fails the test if the request lacks the expected bearer token.
func assertAuth(t *testing.T, request *http.Request, token string) {
	t.Helper()
	if got := request.Header.Get("Authorization"); got != "Bearer "+token {
		t.Errorf("unexpected Authorization header: %q", got)
	}
}

func writeJSON(writer http.ResponseWriter, v any) {
	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(v)
}

func TestNewClient(t *testing.T) {
	t.Run("valid URL", func(t *testing.T) {
		client, err := NewClient(ClientConfig{ServerURL: "http://localhost:8008"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if client == nil {
			t.Fatal("NewClient returned nil")
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{}); err == nil {
			t.Fatal("expected error for empty URL")
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{ServerURL: "://invalid"}); err == nil {
			t.Fatal("expected error for invalid URL")
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("successful login", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/_matrix/client/v3/login" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			if request.Method != http.MethodPost {
				t.Errorf("unexpected method: %s", request.Method)
			}
			if got := request.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("unexpected content type: %q", got)
			}

			var body LoginRequest
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode request body: %v", err)
			}
			if body.Type != "m.login.password" {
				t.Errorf("unexpected login type: %s", body.Type)
			}
			if body.User != "lysander" {
				t.Errorf("unexpected user: %s", body.User)
			}
			if body.Password != "hunter2" {
				t.Errorf("unexpected password: %s", body.Password)
			}

			writeJSON(writer, AuthResponse{
				UserID:      "@lysander:collab.local",
				AccessToken: "syt_abc",
			})
		}))

		response, err := client.Login(context.Background(), LoginRequest{
			Type:     "m.login.password",
			User:     "lysander",
			Password: "hunter2",
		})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if response.AccessToken != "syt_abc" {
			t.Errorf("unexpected access token: %s", response.AccessToken)
		}
	})

	t.Run("forbidden", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusForbidden)
			json.NewEncoder(writer).Encode(MatrixError{
				Code:    ErrCodeForbidden,
				Message: "Invalid password",
			})
		}))

		_, err := client.Login(context.Background(), LoginRequest{Type: "m.login.password", User: "lysander"})
		if err == nil {
			t.Fatal("expected error for forbidden login")
		}
		if !IsMatrixError(err, ErrCodeForbidden) {
			t.Errorf("expected M_FORBIDDEN, got: %v", err)
		}
		var matrixErr *MatrixError
		if !errors.As(err, &matrixErr) || matrixErr.StatusCode != http.StatusForbidden {
			t.Errorf("expected status 403 in error, got: %v", err)
		}
	})

	t.Run("non-JSON error body", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
			writer.Write([]byte("upstream exploded"))
		}))

		_, err := client.Login(context.Background(), LoginRequest{Type: "m.login.password"})
		var matrixErr *MatrixError
		if !errors.As(err, &matrixErr) {
			t.Fatalf("expected MatrixError, got: %v", err)
		}
		if matrixErr.StatusCode != http.StatusBadGateway {
			t.Errorf("unexpected status: %d", matrixErr.StatusCode)
		}
		if !strings.Contains(matrixErr.Message, "upstream exploded") {
			t.Errorf("raw body not surfaced: %q", matrixErr.Message)
		}
	})

	t.Run("connection failure is not a MatrixError", func(t *testing.T) {
		// Port 1 is essentially guaranteed to refuse connections.
		client, err := NewClient(ClientConfig{ServerURL: "http://127.0.0.1:1"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}

		_, err = client.Login(context.Background(), LoginRequest{Type: "m.login.password"})
		if err == nil {
			t.Fatal("expected connection error")
		}
		var matrixErr *MatrixError
		if errors.As(err, &matrixErr) {
			t.Errorf("connection failure surfaced as MatrixError: %v", err)
		}
	})
}

func TestResolveAlias(t *testing.T) {
	t.Run("resolves and escapes", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assertAuth(t, request, "syt_abc")
			// Both the alias marker and the server separator must be
			// percent-encoded in the raw path.
			if request.URL.EscapedPath() != "/_matrix/client/v3/directory/room/%23development_collab%3Acollab.local" {
				t.Errorf("unexpected path: %s", request.URL.EscapedPath())
			}
			writeJSON(writer, map[string]any{"room_id": "!room:collab.local"})
		}))

		response, err := client.ResolveAlias(context.Background(), testToken(t, "syt_abc"),
			ref.MustParseRoomAlias("#development_collab:collab.local"))
		if err != nil {
			t.Fatalf("ResolveAlias failed: %v", err)
		}
		if response.RoomID.String() != "!room:collab.local" {
			t.Errorf("unexpected room ID: %s", response.RoomID)
		}
	})

	t.Run("empty response yields zero room ID", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(writer, map[string]any{})
		}))

		response, err := client.ResolveAlias(context.Background(), testToken(t, "syt_abc"),
			ref.MustParseRoomAlias("#nowhere:collab.local"))
		if err != nil {
			t.Fatalf("ResolveAlias failed: %v", err)
		}
		if !response.RoomID.IsZero() {
			t.Errorf("expected zero room ID, got %s", response.RoomID)
		}
	})
}

func TestRoomMessages(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assertAuth(t, request, "syt_abc")
		if !strings.HasSuffix(request.URL.Path, "/messages") {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		if got := request.URL.Query().Get("dir"); got != "b" {
			t.Errorf("unexpected dir: %q", got)
		}
		if got := request.URL.Query().Get("limit"); got != "10" {
			t.Errorf("unexpected limit: %q", got)
		}
		writeJSON(writer, RoomMessagesResponse{
			Chunk: []Event{
				{Type: EventTypeMessage, Sender: "@b:x", Content: map[string]any{"body": "newest"}},
				{Type: EventTypeMessage, Sender: "@a:x", Content: map[string]any{"body": "older"}},
			},
		})
	}))

	response, err := client.RoomMessages(context.Background(), testToken(t, "syt_abc"),
		ref.MustParseRoomID("!room:collab.local"), RoomMessagesOptions{Limit: 10})
	if err != nil {
		t.Fatalf("RoomMessages failed: %v", err)
	}
	if len(response.Chunk) != 2 {
		t.Fatalf("expected 2 events, got %d", len(response.Chunk))
	}
	if response.Chunk[0].Body() != "newest" {
		t.Errorf("unexpected first event: %+v", response.Chunk[0])
	}
}

func TestSync(t *testing.T) {
	roomID := ref.MustParseRoomID("!room:collab.local")

	client := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assertAuth(t, request, "syt_abc")
		query := request.URL.Query()
		if got := query.Get("timeout"); got != "0" {
			t.Errorf("unexpected timeout: %q", got)
		}
		if got := query.Get("since"); got != "s100" {
			t.Errorf("unexpected since: %q", got)
		}
		if got := query.Get("filter"); !strings.Contains(got, roomID.String()) {
			t.Errorf("filter not scoped to room: %q", got)
		}
		writeJSON(writer, map[string]any{
			"next_batch": "s200",
			"rooms": map[string]any{
				"join": map[string]any{
					roomID.String(): map[string]any{
						"timeline": map[string]any{
							"events": []map[string]any{
								{"type": EventTypeMessage, "sender": "@a:x", "content": map[string]any{"body": "hi"}, "origin_server_ts": 1000},
							},
						},
					},
				},
			},
		})
	}))

	response, err := client.Sync(context.Background(), testToken(t, "syt_abc"), SyncOptions{
		Since:      "s100",
		SetTimeout: true,
		Filter:     BuildSyncFilter(roomID, 10),
	})
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if response.NextBatch != "s200" {
		t.Errorf("unexpected next_batch: %s", response.NextBatch)
	}
	joined, ok := response.Rooms.Join[roomID]
	if !ok {
		t.Fatal("resolved room missing from join section")
	}
	if len(joined.Timeline.Events) != 1 || joined.Timeline.Events[0].Body() != "hi" {
		t.Errorf("unexpected timeline: %+v", joined.Timeline.Events)
	}
}

func TestSendMessage(t *testing.T) {
	transactionIDs := make(map[string]bool)

	client := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assertAuth(t, request, "syt_abc")
		if request.Method != http.MethodPut {
			t.Errorf("unexpected method: %s", request.Method)
		}
		segments := strings.Split(request.URL.Path, "/")
		transactionID := segments[len(segments)-1]
		if transactionIDs[transactionID] {
			t.Errorf("transaction ID reused: %s", transactionID)
		}
		transactionIDs[transactionID] = true

		var content MessageContent
		if err := json.NewDecoder(request.Body).Decode(&content); err != nil {
			t.Fatalf("failed to decode content: %v", err)
		}
		if content.MsgType != MsgTypeText {
			t.Errorf("unexpected msgtype: %s", content.MsgType)
		}
		writeJSON(writer, SendEventResponse{EventID: "$event1"})
	}))

	token := testToken(t, "syt_abc")
	roomID := ref.MustParseRoomID("!room:collab.local")

	for _, body := range []string{"first", "second"} {
		response, err := client.SendMessage(context.Background(), token, roomID, NewTextMessage(body))
		if err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}
		if response.EventID != "$event1" {
			t.Errorf("unexpected event ID: %s", response.EventID)
		}
	}
	if len(transactionIDs) != 2 {
		t.Errorf("expected 2 distinct transaction IDs, got %d", len(transactionIDs))
	}
}

func TestBuildSyncFilter(t *testing.T) {
	filter := BuildSyncFilter(ref.MustParseRoomID("!room:collab.local"), 10)

	var decoded struct {
		Room struct {
			Rooms    []string `json:"rooms"`
			Timeline struct {
				Limit int `json:"limit"`
			} `json:"timeline"`
		} `json:"room"`
		Presence struct {
			Types []string `json:"types"`
		} `json:"presence"`
	}
	if err := json.Unmarshal([]byte(filter), &decoded); err != nil {
		t.Fatalf("filter is not valid JSON: %v", err)
	}
	if len(decoded.Room.Rooms) != 1 || decoded.Room.Rooms[0] != "!room:collab.local" {
		t.Errorf("filter not scoped to the room: %s", filter)
	}
	if decoded.Room.Timeline.Limit != 10 {
		t.Errorf("unexpected timeline limit: %d", decoded.Room.Timeline.Limit)
	}
	if decoded.Presence.Types == nil || len(decoded.Presence.Types) != 0 {
		t.Errorf("presence not suppressed: %s", filter)
	}
}
