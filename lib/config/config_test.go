// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnvironment unsets all collab environment variables for the
// duration of the test so that host settings cannot leak in.
func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, name := range []string{"COLLAB_CONFIG", "COLLAB_SERVER", "COLLAB_USER", "COLLAB_ROOM_ALIAS", "COLLAB_CACHE_DIR"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestDefaults(t *testing.T) {
	clearEnvironment(t)

	configuration, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if configuration.ServerURL != "http://chat:8008" {
		t.Errorf("unexpected server URL: %s", configuration.ServerURL)
	}
	if configuration.RoomAlias != "#development_collab:collab.local" {
		t.Errorf("unexpected room alias: %s", configuration.RoomAlias)
	}
	if configuration.Poll.Cadence.Std() != time.Second {
		t.Errorf("unexpected cadence: %v", configuration.Poll.Cadence.Std())
	}
	if configuration.Poll.Grace.Std() != 5*time.Second {
		t.Errorf("unexpected grace: %v", configuration.Poll.Grace.Std())
	}
	if configuration.Username != "" {
		t.Errorf("username has no default, got %q", configuration.Username)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("COLLAB_SERVER", "http://localhost:8008")
	t.Setenv("COLLAB_USER", "lysander")
	t.Setenv("COLLAB_ROOM_ALIAS", "#ops:collab.local")

	configuration, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if configuration.ServerURL != "http://localhost:8008" {
		t.Errorf("unexpected server URL: %s", configuration.ServerURL)
	}
	if configuration.Username != "lysander" {
		t.Errorf("unexpected username: %s", configuration.Username)
	}
	if configuration.RoomAlias != "#ops:collab.local" {
		t.Errorf("unexpected room alias: %s", configuration.RoomAlias)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnvironment(t)

	path := filepath.Join(t.TempDir(), "collab.yaml")
	content := `
server_url: http://matrix.internal:8008
username: relay
room_alias: "#relay:collab.local"
poll:
  cadence: 250ms
  grace: 2s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	configuration, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if configuration.ServerURL != "http://matrix.internal:8008" {
		t.Errorf("unexpected server URL: %s", configuration.ServerURL)
	}
	if configuration.Poll.Cadence.Std() != 250*time.Millisecond {
		t.Errorf("unexpected cadence: %v", configuration.Poll.Cadence.Std())
	}
	if configuration.Poll.Grace.Std() != 2*time.Second {
		t.Errorf("unexpected grace: %v", configuration.Poll.Grace.Std())
	}
}

func TestEnvironmentWinsOverFile(t *testing.T) {
	clearEnvironment(t)

	path := filepath.Join(t.TempDir(), "collab.yaml")
	if err := os.WriteFile(path, []byte("username: from-file\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	t.Setenv("COLLAB_CONFIG", path)
	t.Setenv("COLLAB_USER", "from-env")

	configuration, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if configuration.Username != "from-env" {
		t.Errorf("environment should override file, got %q", configuration.Username)
	}
}

func TestConfiguredFileMustExist(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("COLLAB_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing configured file")
	}
}

func TestInvalidDuration(t *testing.T) {
	clearEnvironment(t)

	path := filepath.Join(t.TempDir(), "collab.yaml")
	if err := os.WriteFile(path, []byte("poll:\n  cadence: fast\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for unparsable duration")
	}
}

func TestValidate(t *testing.T) {
	configuration := Default()

	err := configuration.Validate()
	var missing *MissingSettingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingSettingError, got %v", err)
	}
	if missing.Setting != "COLLAB_USER" {
		t.Errorf("unexpected missing setting: %s", missing.Setting)
	}

	configuration.Username = "lysander"
	if err := configuration.Validate(); err != nil {
		t.Errorf("Validate failed with username set: %v", err)
	}
}
