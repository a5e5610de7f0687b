// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

// Package collab implements the session, sync, and poll engine for a
// shared collaboration room on a Matrix homeserver.
//
// [Session] owns the per-process state: it authenticates once and
// memoizes the access token, resolves the configured room alias once
// and memoizes the room ID, and exposes the four operations automated
// participants need — [Session.ReadMessages] (historical page),
// [Session.SyncMessages] (incremental delta since the stored cursor),
// [Session.PostMessage], and, through [Poller], a wait-then-drain
// polling loop.
//
// Durable state is a single sync cursor per identity, managed by
// [CursorStore]: an opaque next_batch token written after every sync
// response that carries one, whether or not any messages arrived.
// The cursor only ever moves forward; it is never rolled back.
//
// All retrieval operations return normalized [Message] records: only
// m.room.message events are surfaced, in chronological order, with
// documented defaults for absent fields. Zero messages is a valid
// successful outcome everywhere.
//
// Nothing in this package retries. Transport failures
// (*messaging.MatrixError or wrapped connection errors) and
// [*ProtocolError] (well-formed responses missing an expected field)
// propagate to the caller, which reports them and terminates the
// operation.
//
// A Session and its CursorStore are not safe for concurrent use.
// Parallel callers must each use an independent Session and identity —
// the cursor file is keyed by identity, so independent identities
// never interleave writes.
package collab
