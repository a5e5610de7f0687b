// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"os"
)

// ReadFromEnv reads a secret from an environment variable into a
// protected buffer. Returns (nil, nil) when the variable is unset or
// empty — callers decide whether an absent secret is an error. The
// environment copy of the value cannot be zeroed; the buffer is the
// copy that is protected against swap and core dumps.
func ReadFromEnv(name string) (*Buffer, error) {
	value := os.Getenv(name)
	if value == "" {
		return nil, nil
	}
	buffer, err := NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return buffer, nil
}

// ReadFromPath reads a secret from a file into a protected buffer.
// Leading/trailing whitespace is trimmed before storing. Returns an
// error if the file is empty after trimming.
func ReadFromPath(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("secret file %s is empty", path)
	}

	// NewFromBytes copies into mmap-backed memory and zeros trimmed.
	buffer, err := NewFromBytes(trimmed)
	// Zero remaining bytes (whitespace prefix/suffix) not covered by trimmed.
	Zero(data)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
