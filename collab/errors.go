// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package collab

import "fmt"

// ProtocolError reports a structurally valid server response that is
// missing a field the operation cannot proceed without: a login reply
// with no access_token, an alias resolution with no room_id, a send
// acknowledgement with no event_id. It is distinct from the transport
// errors produced by the messaging package — the HTTP exchange
// succeeded, but the payload does not say what it must.
type ProtocolError struct {
	// Op names the operation whose response was incomplete.
	Op string
	// Field is the missing response field.
	Field string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("collab: %s response missing %s", e.Op, e.Field)
}
