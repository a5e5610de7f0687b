// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package cli

// suggestCommand returns the subcommand name closest to the typo, or
// "" when nothing is close enough to be a plausible intent.
func suggestCommand(input string, subcommands []*Command) string {
	best := ""
	bestDistance := len(input)/2 + 1
	for _, sub := range subcommands {
		if d := editDistance(input, sub.Name); d < bestDistance {
			best = sub.Name
			bestDistance = d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := range previous {
		previous[j] = j
	}
	for i := 1; i <= len(a); i++ {
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current[j] = min(previous[j]+1, current[j-1]+1, previous[j-1]+cost)
		}
		previous, current = current, previous
	}
	return previous[len(b)]
}
