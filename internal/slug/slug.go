// Package slug derives URL slugs from document titles.
package slug

import (
	"strings"
	"unicode"
)

// Make lowercases the title, maps runs of non-alphanumeric characters to
// single dashes, and trims leading/trailing dashes. An empty or fully
// symbolic title yields "untitled".
func Make(title string) string {
	var b strings.Builder
	lastDash := true // swallow leading separators
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "untitled"
	}
	return s
}
