// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/collab-foundation/collab/lib/secret"
)

// ReadPassword obtains the login credential. The environment variable
// wins when set; otherwise, if stdin is a terminal, the user is
// prompted with echo disabled. Running non-interactively with no
// credential in the environment is an error, never a hang.
func ReadPassword(envName, prompt string) (*secret.Buffer, error) {
	password, err := secret.ReadFromEnv(envName)
	if err != nil {
		return nil, err
	}
	if password != nil {
		return password, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not set and stdin is not a terminal", envName)
	}

	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	line, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	if len(line) == 0 {
		return nil, fmt.Errorf("empty password")
	}
	// NewFromBytes zeroes line after copying it into locked memory.
	return secret.NewFromBytes(line)
}
