// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/collab-foundation/collab/cmd/collab/cli"
	"github.com/collab-foundation/collab/collab"
)

func pollCommand() *cli.Command {
	var deadline time.Duration
	var verbose bool

	return &cli.Command{
		Name:    "poll",
		Summary: "Wait for new messages, then print them.",
		Description: `Poll blocks until at least one new message arrives, keeps
collecting through a short grace window so immediate replies are
included, and prints everything gathered, oldest first.

The wait is unbounded unless --deadline is given. On a deadline the
command exits 1 with no output; messages that arrived before the
deadline are not re-delivered later, since each sync advances the
cursor. Cadence and grace come from the poll section of the config
file.`,
		Usage: "collab poll [--deadline d]",
		Examples: []cli.Example{
			{
				Description: "Wait at most five minutes for a reply",
				Command:     "collab poll --deadline 5m",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("poll", pflag.ContinueOnError)
			flags.DurationVar(&deadline, "deadline", 0, "give up after this long (0 waits forever)")
			flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("poll takes no positional arguments")
			}
			logger := cli.NewCommandLogger(logLevel(verbose)).With("command", "poll")
			session, configuration, err := newSession(logger)
			if err != nil {
				return err
			}
			defer session.Close()

			poller, err := collab.NewPoller(collab.PollerConfig{
				Source:  session,
				Cadence: configuration.Poll.Cadence.Std(),
				Grace:   configuration.Poll.Grace.Std(),
				Logger:  logger,
			})
			if err != nil {
				return err
			}

			ctx := context.Background()
			if deadline > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, deadline)
				defer cancel()
			}

			messages, err := poller.Poll(ctx)
			if errors.Is(err, context.DeadlineExceeded) {
				logger.Info("no messages before deadline", "deadline", deadline)
				return &cli.ExitError{Code: 1}
			}
			if err != nil {
				return err
			}
			printMessages(os.Stdout, messages)
			return nil
		},
	}
}
