// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"encoding/json"
	"testing"
)

func TestParseRoomID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		roomID, err := ParseRoomID("!abc123:collab.local")
		if err != nil {
			t.Fatalf("ParseRoomID failed: %v", err)
		}
		if roomID.String() != "!abc123:collab.local" {
			t.Errorf("unexpected string form: %s", roomID)
		}
		if roomID.IsZero() {
			t.Error("parsed room ID reported as zero")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, raw := range []string{"", "abc:collab.local", "!:collab.local", "!abc", "!abc:"} {
			if _, err := ParseRoomID(raw); err == nil {
				t.Errorf("ParseRoomID(%q) succeeded, want error", raw)
			}
		}
	})

	t.Run("zero value", func(t *testing.T) {
		var roomID RoomID
		if !roomID.IsZero() {
			t.Error("zero RoomID reported as non-zero")
		}
	})
}

func TestParseRoomAlias(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		alias, err := ParseRoomAlias("#development_collab:collab.local")
		if err != nil {
			t.Fatalf("ParseRoomAlias failed: %v", err)
		}
		if alias.Localpart() != "development_collab" {
			t.Errorf("unexpected localpart: %s", alias.Localpart())
		}
		if alias.Server() != "collab.local" {
			t.Errorf("unexpected server: %s", alias.Server())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, raw := range []string{"", "development", "#:collab.local", "#dev", "#dev:"} {
			if _, err := ParseRoomAlias(raw); err == nil {
				t.Errorf("ParseRoomAlias(%q) succeeded, want error", raw)
			}
		}
	})
}

func TestRoomIDJSONRoundTrip(t *testing.T) {
	type payload struct {
		RoomID RoomID `json:"room_id"`
	}

	var decoded payload
	if err := json.Unmarshal([]byte(`{"room_id":"!room:collab.local"}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.RoomID.String() != "!room:collab.local" {
		t.Errorf("unexpected room ID: %s", decoded.RoomID)
	}

	if err := json.Unmarshal([]byte(`{"room_id":"not-a-room"}`), &decoded); err == nil {
		t.Error("unmarshal of invalid room ID succeeded, want error")
	}
}

func TestRoomIDAsMapKey(t *testing.T) {
	// /sync responses use room IDs as JSON object keys; decoding relies
	// on the TextUnmarshaler implementation.
	var joined map[RoomID]struct{ Count int }
	if err := json.Unmarshal([]byte(`{"!a:x":{"Count":1},"!b:y":{"Count":2}}`), &joined); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(joined) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(joined))
	}
	if joined[MustParseRoomID("!a:x")].Count != 1 {
		t.Errorf("unexpected value for !a:x: %+v", joined[MustParseRoomID("!a:x")])
	}
}
