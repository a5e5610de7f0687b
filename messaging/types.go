// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"github.com/collab-foundation/collab/lib/ref"
)

// Matrix event and message type identifiers consumed by collab.
const (
	// EventTypeMessage is the Matrix event type for room messages.
	// Events of any other type are not message records.
	EventTypeMessage = "m.room.message"

	// MsgTypeText is the msgtype for plain text message content.
	MsgTypeText = "m.text"
)

// LoginRequest is the request body for password login.
type LoginRequest struct {
	Type                     string `json:"type"`
	User                     string `json:"user"`
	Password                 string `json:"password"`
	InitialDeviceDisplayName string `json:"initial_device_display_name,omitempty"`
}

// AuthResponse is returned by Login. AccessToken may be empty if the
// server responded 2xx without a usable credential — the caller decides
// whether that is a protocol error.
type AuthResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	DeviceID    string `json:"device_id"`
}

// ResolveAliasResponse is returned by ResolveAlias. RoomID is the zero
// value when the response carried no room_id field.
type ResolveAliasResponse struct {
	RoomID  ref.RoomID `json:"room_id"`
	Servers []string   `json:"servers"`
}

// Event is a timeline event from the homeserver. Sender is kept as a
// loose string: events are normalized with documented defaults rather
// than rejected, so a missing or malformed sender must not fail the
// surrounding batch.
type Event struct {
	EventID        string         `json:"event_id,omitempty"`
	Type           string         `json:"type"`
	Sender         string         `json:"sender"`
	OriginServerTS int64          `json:"origin_server_ts"`
	Content        map[string]any `json:"content"`
}

// Body returns the message body from the event content, or "" when
// absent. An empty body is valid message content.
func (e Event) Body() string {
	body, _ := e.Content["body"].(string)
	return body
}

// MessageContent is the content body of an m.room.message event.
type MessageContent struct {
	MsgType string `json:"msgtype"`
	Body    string `json:"body"`
}

// NewTextMessage creates plain text message content.
func NewTextMessage(body string) MessageContent {
	return MessageContent{
		MsgType: MsgTypeText,
		Body:    body,
	}
}

// RoomMessagesOptions controls pagination for room message fetching.
type RoomMessagesOptions struct {
	From      string // pagination token; empty means "from now"
	Direction string // "b" (backward/newest first) or "f" (forward)
	Limit     int    // max events to return; 0 uses the server default
}

// RoomMessagesResponse is returned by RoomMessages. Chunk is in the
// requested direction: newest first for "b".
type RoomMessagesResponse struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Chunk []Event `json:"chunk"`
}

// SyncOptions controls the behavior of the /sync endpoint.
type SyncOptions struct {
	Since      string // next_batch token from a previous sync; empty for initial sync
	Timeout    int    // long-poll timeout in milliseconds; 0 for immediate return
	SetTimeout bool   // if true, send the timeout parameter (distinguishes "not set" from "0")
	Filter     string // filter ID or inline JSON filter
}

// SyncResponse is the top-level response from /sync.
type SyncResponse struct {
	NextBatch string       `json:"next_batch"`
	Rooms     RoomsSection `json:"rooms"`
}

// RoomsSection contains per-room sync data grouped by membership state.
// Map keys are room IDs; encoding/json uses ref.RoomID's TextUnmarshaler
// for automatic validation at deserialization.
type RoomsSection struct {
	Join map[ref.RoomID]JoinedRoom `json:"join,omitempty"`
}

// JoinedRoom contains sync data for a room the user has joined.
type JoinedRoom struct {
	Timeline TimelineSection `json:"timeline"`
}

// TimelineSection contains timeline events from a sync response, in
// the order the server recorded them.
type TimelineSection struct {
	Events    []Event `json:"events"`
	PrevBatch string  `json:"prev_batch"`
	Limited   bool    `json:"limited"`
}

// SendEventResponse is returned by SendMessage. EventID is empty when
// the server acknowledged without an event ID — the caller decides
// whether that is a protocol error.
type SendEventResponse struct {
	EventID string `json:"event_id"`
}
