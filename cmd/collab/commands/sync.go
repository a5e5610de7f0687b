// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/collab-foundation/collab/cmd/collab/cli"
)

func syncCommand() *cli.Command {
	var verbose bool

	return &cli.Command{
		Name:    "sync",
		Summary: "Print messages that arrived since the last sync.",
		Description: `Sync performs one incremental fetch against the stored cursor and
prints whatever arrived since, oldest first. The cursor advances even
when nothing arrived, so each message is reported exactly once across
runs. No output and exit 0 means "nothing new".

The first sync of a fresh identity establishes the cursor; the server
decides how much recent history that initial fetch includes.`,
		Usage: "collab sync",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("sync", pflag.ContinueOnError)
			flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("sync takes no positional arguments")
			}
			logger := cli.NewCommandLogger(logLevel(verbose)).With("command", "sync")
			session, _, err := newSession(logger)
			if err != nil {
				return err
			}
			defer session.Close()

			messages, err := session.SyncMessages(context.Background())
			if err != nil {
				return err
			}
			printMessages(os.Stdout, messages)
			return nil
		},
	}
}
