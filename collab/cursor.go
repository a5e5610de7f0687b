// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package collab

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CursorStore persists the sync cursor for one identity as a
// plain-text file named "sync_token_<username>" under a cache
// directory. The cursor is an opaque server token; the store never
// inspects it beyond trimming surrounding whitespace.
//
// Saves always overwrite. The cursor moves forward with each sync and
// is never rolled back, even when the batch it came from carried no
// messages.
type CursorStore struct {
	path string
}

// NewCursorStore returns a store rooted at dir for the given username.
// The directory is created lazily on first save, so constructing a
// store has no filesystem effect.
func NewCursorStore(dir, username string) *CursorStore {
	return &CursorStore{path: filepath.Join(dir, "sync_token_"+username)}
}

// DefaultCursorDir returns the per-user cache directory used when no
// explicit directory is configured.
func DefaultCursorDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("collab: locating cache directory: %w", err)
	}
	return filepath.Join(base, "collab"), nil
}

// Path returns the file the cursor is stored in.
func (s *CursorStore) Path() string {
	return s.path
}

// Load returns the stored cursor, or "" when none has ever been saved.
// A missing file is not an error; it means sync starts from the
// beginning of time.
func (s *CursorStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("collab: reading sync cursor: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save overwrites the stored cursor, creating the cache directory if
// needed. The file is readable by the owner only: the cursor is not a
// credential, but it reveals account activity.
func (s *CursorStore) Save(cursor string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("collab: creating cache directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(cursor), 0o600); err != nil {
		return fmt.Errorf("collab: writing sync cursor: %w", err)
	}
	return nil
}
