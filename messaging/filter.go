// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"

	"github.com/collab-foundation/collab/lib/ref"
)

// BuildSyncFilter constructs the inline JSON filter for /sync calls
// scoped to a single room. The filter caps the timeline window at
// timelineLimit events per response and suppresses presence and
// account-data sections, which collab never consumes.
func BuildSyncFilter(roomID ref.RoomID, timelineLimit int) string {
	roomFilter := map[string]any{
		"rooms": []string{roomID.String()},
	}
	if timelineLimit > 0 {
		roomFilter["timeline"] = map[string]any{"limit": timelineLimit}
	}

	top := map[string]any{
		"room":         roomFilter,
		"presence":     map[string]any{"types": []string{}},
		"account_data": map[string]any{"types": []string{}},
	}

	data, _ := json.Marshal(top)
	return string(data)
}
