// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for collab.
//
// Configuration comes from two layers. An optional YAML file — the path
// given by the COLLAB_CONFIG environment variable — supplies base
// values. Environment variables override the file:
//
//   - COLLAB_SERVER — homeserver base URL (default http://chat:8008)
//   - COLLAB_USER — login username (required)
//   - COLLAB_PASS — login password (required; read by the caller into a
//     secret buffer, never stored in this package)
//   - COLLAB_ROOM_ALIAS — room alias
//     (default #development_collab:collab.local)
//   - COLLAB_CACHE_DIR — cursor cache directory
//     (default <user cache dir>/collab)
//
// There is no automatic file discovery and no ~/.config search. Absent
// mandatory settings are reported as [*MissingSettingError] before any
// network activity.
//
// Key exports:
//
//   - [Config] — settings struct with poll timing
//   - [Default] — returns a Config with documented defaults
//   - [Load] and [LoadFile] — the two entry points for loading
package config
