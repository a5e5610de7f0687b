// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all collab settings.
type Config struct {
	// ServerURL is the base URL of the homeserver.
	ServerURL string `yaml:"server_url"`

	// Username is the localpart used for password login and for keying
	// the cursor file. Mandatory; there is no default.
	Username string `yaml:"username"`

	// RoomAlias is the alias of the shared room
	// (e.g., "#development_collab:collab.local").
	RoomAlias string `yaml:"room_alias"`

	// CacheDir is the directory holding per-identity cursor files.
	// Empty means "<user cache dir>/collab", resolved by the caller.
	CacheDir string `yaml:"cache_dir"`

	// Poll configures the wait-then-drain polling loop.
	Poll PollConfig `yaml:"poll"`
}

// PollConfig holds the timing of the polling loop.
type PollConfig struct {
	// Cadence is the interval between sync calls.
	Cadence Duration `yaml:"cadence"`

	// Grace is how long polling continues after the first message
	// arrives.
	Grace Duration `yaml:"grace"`
}

// Duration wraps time.Duration with YAML string decoding
// ("1s", "500ms", "2m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns a Config with the documented defaults. Username is
// intentionally left empty — it has no default and must come from the
// environment or the config file.
func Default() Config {
	return Config{
		ServerURL: "http://chat:8008",
		RoomAlias: "#development_collab:collab.local",
		Poll: PollConfig{
			Cadence: Duration(time.Second),
			Grace:   Duration(5 * time.Second),
		},
	}
}

// MissingSettingError reports a mandatory setting absent from both the
// environment and the config file. Detected before any network call.
type MissingSettingError struct {
	// Setting is the environment variable name of the missing value.
	Setting string
}

func (e *MissingSettingError) Error() string {
	return fmt.Sprintf("config: %s must be set", e.Setting)
}

// Load builds the configuration: defaults, then the YAML file named by
// COLLAB_CONFIG (if set), then environment variable overrides. A set
// but unreadable COLLAB_CONFIG is an error — a configured file is
// expected to exist.
func Load() (Config, error) {
	configuration := Default()

	if path := os.Getenv("COLLAB_CONFIG"); path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		configuration = loaded
	}

	applyEnvironment(&configuration)
	return configuration, nil
}

// LoadFile reads a YAML config file over the defaults. Environment
// variable overrides are applied on top, matching Load.
func LoadFile(path string) (Config, error) {
	configuration := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &configuration); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyEnvironment(&configuration)
	return configuration, nil
}

// applyEnvironment overlays environment variables onto the configuration.
func applyEnvironment(configuration *Config) {
	if value := os.Getenv("COLLAB_SERVER"); value != "" {
		configuration.ServerURL = value
	}
	if value := os.Getenv("COLLAB_USER"); value != "" {
		configuration.Username = value
	}
	if value := os.Getenv("COLLAB_ROOM_ALIAS"); value != "" {
		configuration.RoomAlias = value
	}
	if value := os.Getenv("COLLAB_CACHE_DIR"); value != "" {
		configuration.CacheDir = value
	}
}

// Validate checks that mandatory settings are present. Returns a
// *MissingSettingError naming the first absent setting.
func (c Config) Validate() error {
	if c.Username == "" {
		return &MissingSettingError{Setting: "COLLAB_USER"}
	}
	if c.ServerURL == "" {
		return &MissingSettingError{Setting: "COLLAB_SERVER"}
	}
	if c.RoomAlias == "" {
		return &MissingSettingError{Setting: "COLLAB_ROOM_ALIAS"}
	}
	return nil
}
