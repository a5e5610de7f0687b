// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/collab-foundation/collab/cmd/collab/cli"
	"github.com/collab-foundation/collab/collab"
)

func readCommand() *cli.Command {
	var limit int
	var verbose bool

	return &cli.Command{
		Name:    "read",
		Summary: "Print the most recent messages in the room.",
		Description: `Read fetches the most recent messages from the room and prints
them oldest first. This is a plain history read: it does not consume
or advance the sync cursor, so the same messages remain "new" for a
later sync or poll.`,
		Usage: "collab read [--limit n]",
		Examples: []cli.Example{
			{
				Description: "Show the last 20 messages",
				Command:     "collab read --limit 20",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("read", pflag.ContinueOnError)
			flags.IntVar(&limit, "limit", collab.DefaultReadLimit, "maximum number of messages to fetch")
			flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("read takes no positional arguments")
			}
			logger := cli.NewCommandLogger(logLevel(verbose)).With("command", "read")
			session, _, err := newSession(logger)
			if err != nil {
				return err
			}
			defer session.Close()

			messages, err := session.ReadMessages(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(messages) == 0 {
				logger.Info("no messages in the room")
				return nil
			}
			printMessages(os.Stdout, messages)
			return nil
		},
	}
}

// logLevel maps the --verbose flag to a slog level.
func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
