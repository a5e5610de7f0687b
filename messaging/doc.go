// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the subset of the Matrix client-server API
// that collab consumes: password login, room alias resolution, room
// message pagination, incremental /sync, and message sending.
//
// [Client] is the transport. It holds the homeserver URL and HTTP
// client; every call takes a context and, for authenticated endpoints,
// the access token in a secret.Buffer. The Client performs no retries
// and caches nothing — memoization of tokens and room IDs belongs to
// the collab package's Session.
//
// All HTTP-level failures surface as [*MatrixError] carrying the HTTP
// status code plus the server-supplied error code and message (or the
// raw body text when the error body is not JSON). Connection-level
// failures (DNS, refused connection, timeout) are returned as wrapped
// errors distinct from *MatrixError, so callers can tell "server
// unreachable" from "server rejected the request". [IsMatrixError]
// tests for a specific Matrix error code.
//
// Request URLs are built by string concatenation rather than url.URL
// to avoid double-encoding of path segments that contain URL-encoded
// characters (such as room aliases).
package messaging
