// Package strings holds small text helpers for terminal output.
package strings

import (
	"strings"
)

// DefaultMessageMaxLen bounds a single reported error line.
const DefaultMessageMaxLen = 200

// MinTruncateLen is the smallest maxLen SingleLine accepts. Anything shorter
// would not leave room for one character plus "...".
const MinTruncateLen = 4

// SingleLine collapses all whitespace in s to single spaces and cuts the
// result to maxLen runes, ending in "..." when cut. maxLen below
// MinTruncateLen is raised to MinTruncateLen.
//
// Provider error descriptions arrive in the callback query string, so they
// may contain newlines or be arbitrarily long.
func SingleLine(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
