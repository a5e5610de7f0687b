// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated value types for Matrix identifiers.
//
// Raw identifier strings arrive from configuration and from homeserver
// responses. They are parsed into these types at the boundary; code past
// the boundary never handles unvalidated identifier strings. All types
// are immutable values whose zero value is "unset" — use IsZero to check.
package ref
