// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/collab-foundation/collab/collab"
)

// formatMessage renders one message as a chat line:
//
//	[14:03:07] @reviewer:collab.local: looks good to me
//
// The timestamp is the server's origin time rendered in local time.
func formatMessage(message collab.Message) string {
	return fmt.Sprintf("[%s] %s: %s",
		message.Time.Format("15:04:05"), message.Sender, message.Body)
}

// printMessages writes one formatted line per message.
func printMessages(w io.Writer, messages []collab.Message) {
	for _, message := range messages {
		fmt.Fprintln(w, formatMessage(message))
	}
}
