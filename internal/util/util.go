package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a new unique identifier for runs and batches.
//
// Returns a string representation of a new UUID.
func NewID() string { return uuid.NewString() }

// Slug lowercases the input and collapses non-alphanumeric runs into single
// dashes, producing a stable scenario identifier from a human name.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
