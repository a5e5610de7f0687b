// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

// Command collab is a client for a shared collaboration room on a
// Matrix homeserver.
package main

import (
	"fmt"
	"os"

	"github.com/collab-foundation/collab/cmd/collab/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that handle their own reporting (like poll's
		// deadline) return an ExitError with the desired code.
		// Don't print a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
