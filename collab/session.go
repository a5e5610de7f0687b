// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package collab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/collab-foundation/collab/lib/ref"
	"github.com/collab-foundation/collab/lib/secret"
	"github.com/collab-foundation/collab/messaging"
)

// deviceDisplayName is attached to the login request so the session
// shows up identifiably in the homeserver's device list.
const deviceDisplayName = "collab"

// SessionConfig carries everything a Session needs. Client, Username,
// Password, RoomAlias, and Cursors are required.
type SessionConfig struct {
	// Client is the homeserver transport.
	Client *messaging.Client

	// Username is the login identifier (localpart or full user ID,
	// whatever the homeserver accepts for m.login.password).
	Username string

	// Password is the login credential. The session reads it on the
	// first authenticated call; ownership stays with the caller.
	Password *secret.Buffer

	// RoomAlias is the collaboration room, resolved to a room ID on
	// first use.
	RoomAlias ref.RoomAlias

	// Cursors persists the sync position for this identity.
	Cursors *CursorStore

	// Logger receives session events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Session binds an identity to the collaboration room. It memoizes the
// access token after the first successful login and the room ID after
// the first successful alias resolution, so repeated operations within
// one process reuse both. Not safe for concurrent use.
type Session struct {
	client    *messaging.Client
	username  string
	password  *secret.Buffer
	roomAlias ref.RoomAlias
	cursors   *CursorStore
	logger    *slog.Logger

	accessToken *secret.Buffer
	roomID      ref.RoomID
}

// NewSession validates the configuration and returns an unauthenticated
// session. No network traffic happens until the first operation.
func NewSession(config SessionConfig) (*Session, error) {
	if config.Client == nil {
		return nil, errors.New("collab: session requires a client")
	}
	if config.Username == "" {
		return nil, errors.New("collab: session requires a username")
	}
	if config.Password == nil {
		return nil, errors.New("collab: session requires a password")
	}
	if config.RoomAlias.IsZero() {
		return nil, errors.New("collab: session requires a room alias")
	}
	if config.Cursors == nil {
		return nil, errors.New("collab: session requires a cursor store")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		client:    config.Client,
		username:  config.Username,
		password:  config.Password,
		roomAlias: config.RoomAlias,
		cursors:   config.Cursors,
		logger:    logger,
	}, nil
}

// Login authenticates with the homeserver and returns the access
// token. The first call performs a password login; every later call
// returns the memoized token without network traffic. The returned
// buffer is owned by the session.
func (s *Session) Login(ctx context.Context) (*secret.Buffer, error) {
	if s.accessToken != nil {
		return s.accessToken, nil
	}
	response, err := s.client.Login(ctx, messaging.LoginRequest{
		Type:                     "m.login.password",
		User:                     s.username,
		Password:                 s.password.String(),
		InitialDeviceDisplayName: deviceDisplayName,
	})
	if err != nil {
		return nil, fmt.Errorf("logging in as %s: %w", s.username, err)
	}
	if response.AccessToken == "" {
		return nil, &ProtocolError{Op: "login", Field: "access_token"}
	}
	token, err := secret.NewFromString(response.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("storing access token: %w", err)
	}
	s.accessToken = token
	s.logger.Info("logged in",
		"user", s.username,
		"device", response.DeviceID)
	return s.accessToken, nil
}

// ResolveRoom resolves the configured room alias to a room ID,
// logging in first if needed. The result is memoized.
func (s *Session) ResolveRoom(ctx context.Context) (ref.RoomID, error) {
	if !s.roomID.IsZero() {
		return s.roomID, nil
	}
	token, err := s.Login(ctx)
	if err != nil {
		return ref.RoomID{}, err
	}
	response, err := s.client.ResolveAlias(ctx, token, s.roomAlias)
	if err != nil {
		return ref.RoomID{}, fmt.Errorf("resolving %s: %w", s.roomAlias, err)
	}
	if response.RoomID.IsZero() {
		return ref.RoomID{}, &ProtocolError{Op: "alias resolution", Field: "room_id"}
	}
	s.roomID = response.RoomID
	s.logger.Debug("resolved room alias",
		"alias", s.roomAlias,
		"room", s.roomID)
	return s.roomID, nil
}

// Close releases the memoized access token. The session cannot be
// reused afterwards.
func (s *Session) Close() error {
	if s.accessToken != nil {
		if err := s.accessToken.Close(); err != nil {
			return err
		}
		s.accessToken = nil
	}
	s.client.CloseIdleConnections()
	return nil
}
