// Package textutil cleans raw scraped page text before it reaches the
// extraction prompt.
package textutil

import (
	"strings"
	"unicode"
)

// Normalize strips control characters and collapses runs of whitespace into
// single spaces. The result has no leading or trailing whitespace. Empty or
// whitespace-only input yields an empty string. Never fails.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case unicode.IsPrint(r):
			b.WriteRune(r)
		}
		// Non-printable, non-space runes are dropped.
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
