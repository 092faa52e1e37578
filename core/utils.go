package core

import "strings"

// CleanString trims surrounding whitespace; pass true to also lowercase,
// which email and search fields rely on for case-insensitive matching.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) == 0 || !lower[0] {
		return s
	}
	return strings.ToLower(s)
}
