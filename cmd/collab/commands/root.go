// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands defines the collab CLI command tree.
package commands

import (
	"github.com/collab-foundation/collab/cmd/collab/cli"
)

// Root returns the top-level collab command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "collab",
		Summary: "Chat with peers in a shared homeserver room.",
		Description: `collab is a small client for a shared collaboration room on a
Matrix homeserver. It logs in, resolves the configured room alias,
and reads, syncs, polls, or posts messages.

Configuration comes from the environment (COLLAB_SERVER, COLLAB_USER,
COLLAB_PASS, COLLAB_ROOM_ALIAS, COLLAB_CACHE_DIR) or from a YAML file
named by COLLAB_CONFIG. Each identity keeps its own sync cursor under
the cache directory, so sync and poll only ever report messages once.`,
		Subcommands: []*cli.Command{
			readCommand(),
			syncCommand(),
			pollCommand(),
			postCommand(),
		},
	}
}
