// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/collab-foundation/collab/cmd/collab/cli"
)

func postCommand() *cli.Command {
	var verbose bool

	return &cli.Command{
		Name:    "post",
		Summary: "Send a message to the room.",
		Description: `Post sends a plain-text message to the room. Multiple arguments
are joined with spaces, so quoting the whole message is optional.`,
		Usage: "collab post <message>...",
		Examples: []cli.Example{
			{
				Description: "Announce a finished build",
				Command:     "collab post build green on main",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("post", pflag.ContinueOnError)
			flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("post requires a message")
			}
			logger := cli.NewCommandLogger(logLevel(verbose)).With("command", "post")
			session, _, err := newSession(logger)
			if err != nil {
				return err
			}
			defer session.Close()

			eventID, err := session.PostMessage(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			logger.Info("message delivered", "event", eventID)
			return nil
		},
	}
}
