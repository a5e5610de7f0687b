// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"log/slog"

	"github.com/collab-foundation/collab/cmd/collab/cli"
	"github.com/collab-foundation/collab/collab"
	"github.com/collab-foundation/collab/lib/config"
	"github.com/collab-foundation/collab/lib/ref"
	"github.com/collab-foundation/collab/messaging"
)

// newSession assembles a room session from the environment: load and
// validate configuration, obtain the password, build the transport and
// cursor store. Configuration problems surface here, before any
// network traffic. The caller owns the returned session and must
// Close it; the loaded configuration is returned for commands that
// need more than the session (e.g., poll timings).
func newSession(logger *slog.Logger) (*collab.Session, config.Config, error) {
	configuration, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	if err := configuration.Validate(); err != nil {
		return nil, config.Config{}, err
	}

	alias, err := ref.ParseRoomAlias(configuration.RoomAlias)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("config: %w", err)
	}

	password, err := cli.ReadPassword("COLLAB_PASS",
		fmt.Sprintf("Password for %s", configuration.Username))
	if err != nil {
		return nil, config.Config{}, err
	}

	client, err := messaging.NewClient(messaging.ClientConfig{
		ServerURL: configuration.ServerURL,
		Logger:    logger,
	})
	if err != nil {
		password.Close()
		return nil, config.Config{}, err
	}

	cacheDir := configuration.CacheDir
	if cacheDir == "" {
		cacheDir, err = collab.DefaultCursorDir()
		if err != nil {
			password.Close()
			return nil, config.Config{}, err
		}
	}

	session, err := collab.NewSession(collab.SessionConfig{
		Client:    client,
		Username:  configuration.Username,
		Password:  password,
		RoomAlias: alias,
		Cursors:   collab.NewCursorStore(cacheDir, configuration.Username),
		Logger:    logger,
	})
	if err != nil {
		password.Close()
		return nil, config.Config{}, err
	}
	return session, configuration, nil
}
