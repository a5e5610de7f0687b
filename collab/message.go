// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package collab

import (
	"time"

	"github.com/collab-foundation/collab/messaging"
)

// DefaultSender is substituted when an event carries no sender.
const DefaultSender = "Unknown"

// Message is a normalized chat message. Every retrieval operation
// returns records of this shape regardless of which endpoint produced
// them.
type Message struct {
	// Sender is the full user ID of the author, or [DefaultSender]
	// when the event carried none.
	Sender string

	// Body is the plain-text content. An empty body is preserved
	// as-is; it is not a synthetic default.
	Body string

	// Timestamp is the server-assigned origin timestamp in
	// milliseconds since the Unix epoch, zero when absent.
	Timestamp int64

	// Time is Timestamp as a local time.Time. When Timestamp is
	// zero this is the epoch, not the zero time.
	Time time.Time
}

// normalizeEvent converts a timeline event into a Message. The second
// return is false for anything that is not an m.room.message event;
// such events are dropped, never surfaced.
func normalizeEvent(event messaging.Event) (Message, bool) {
	if event.Type != messaging.EventTypeMessage {
		return Message{}, false
	}
	sender := event.Sender
	if sender == "" {
		sender = DefaultSender
	}
	return Message{
		Sender:    sender,
		Body:      event.Body(),
		Timestamp: event.OriginServerTS,
		Time:      time.UnixMilli(event.OriginServerTS),
	}, true
}

// normalizeEvents filters and converts a chronologically ordered slice
// of timeline events, preserving order.
func normalizeEvents(events []messaging.Event) []Message {
	var messages []Message
	for _, event := range events {
		if message, ok := normalizeEvent(event); ok {
			messages = append(messages, message)
		}
	}
	return messages
}
