// Package util holds small string helpers shared by pwrun packages.
package util

import "strings"

// maxSessionSlug caps the length of generated session names.
const maxSessionSlug = 48

// SanitizeSessionName turns a display name into a slug usable as a tmux
// target. tmux splits targets on '.' and ':', so every run of characters
// outside [a-z0-9_] becomes a single hyphen, and hyphens never lead or trail.
//
// Example: "Playwright Tests" → "playwright-tests"
func SanitizeSessionName(name string) string {
	var b strings.Builder
	gap := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}

	s := b.String()
	if len(s) > maxSessionSlug {
		s = strings.TrimRight(s[:maxSessionSlug], "-")
	}
	return s
}
