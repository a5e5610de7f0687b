// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package collab

import (
	"context"
	"fmt"

	"github.com/collab-foundation/collab/messaging"
)

// timelineWindow bounds the per-room timeline in each sync response.
// Anything older than the window is dropped by the server; the poll
// loop's cadence keeps deltas well under it in practice.
const timelineWindow = 10

// DefaultReadLimit is the page size for ReadMessages when the caller
// passes a non-positive limit.
const DefaultReadLimit = 10

// ReadMessages fetches the most recent messages from the room, oldest
// first. This is a stateless read of recent history: it does not load,
// advance, or otherwise touch the sync cursor. A non-positive limit
// uses [DefaultReadLimit].
func (s *Session) ReadMessages(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultReadLimit
	}
	token, err := s.Login(ctx)
	if err != nil {
		return nil, err
	}
	roomID, err := s.ResolveRoom(ctx)
	if err != nil {
		return nil, err
	}
	response, err := s.client.RoomMessages(ctx, token, roomID, messaging.RoomMessagesOptions{
		Direction: "b",
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("reading room history: %w", err)
	}
	// The backward page arrives newest first; flip it so callers
	// always see chronological order.
	chronological := make([]messaging.Event, len(response.Chunk))
	for i, event := range response.Chunk {
		chronological[len(response.Chunk)-1-i] = event
	}
	return normalizeEvents(chronological), nil
}

// SyncMessages fetches everything that arrived in the room since the
// stored cursor and advances the cursor. The new cursor is persisted
// as soon as the response carries one, before the room's timeline is
// even inspected — an empty delta still moves the cursor forward.
//
// The first sync of a fresh identity has no cursor and establishes
// one; the server decides how much (typically recent) history that
// initial response includes.
//
// An empty result is a normal outcome: nothing new arrived, or the
// identity is not joined to the room.
func (s *Session) SyncMessages(ctx context.Context) ([]Message, error) {
	token, err := s.Login(ctx)
	if err != nil {
		return nil, err
	}
	roomID, err := s.ResolveRoom(ctx)
	if err != nil {
		return nil, err
	}
	since, err := s.cursors.Load()
	if err != nil {
		return nil, err
	}
	response, err := s.client.Sync(ctx, token, messaging.SyncOptions{
		Since:      since,
		Timeout:    0,
		SetTimeout: true,
		Filter:     messaging.BuildSyncFilter(roomID, timelineWindow),
	})
	if err != nil {
		return nil, fmt.Errorf("syncing: %w", err)
	}
	if response.NextBatch != "" {
		if err := s.cursors.Save(response.NextBatch); err != nil {
			return nil, err
		}
	}
	joined, ok := response.Rooms.Join[roomID]
	if !ok {
		return nil, nil
	}
	messages := normalizeEvents(joined.Timeline.Events)
	if len(messages) > 0 {
		s.logger.Debug("sync delta",
			"room", roomID,
			"messages", len(messages))
	}
	return messages, nil
}

// PostMessage sends a plain-text message to the room and returns the
// server-assigned event ID.
func (s *Session) PostMessage(ctx context.Context, body string) (string, error) {
	token, err := s.Login(ctx)
	if err != nil {
		return "", err
	}
	roomID, err := s.ResolveRoom(ctx)
	if err != nil {
		return "", err
	}
	response, err := s.client.SendMessage(ctx, token, roomID, messaging.NewTextMessage(body))
	if err != nil {
		return "", fmt.Errorf("posting message: %w", err)
	}
	if response.EventID == "" {
		return "", &ProtocolError{Op: "send", Field: "event_id"}
	}
	s.logger.Info("posted message",
		"room", roomID,
		"event", response.EventID)
	return response.EventID, nil
}
