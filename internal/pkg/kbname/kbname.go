package kbname

import (
	"strings"
	"unicode"
)

// CollectionPrefix is prepended to every normalized knowledge base name to form
// the backing collection identifier (e.g. "Client ACME" -> "kb_client_acme").
const CollectionPrefix = "kb_"

// Normalize converts a user-facing knowledge base name into its canonical form:
// lowercase, with every run of whitespace, hyphens or other non-alphanumeric
// characters collapsed into a single underscore. Normalize is idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(lowered))

	prevSep := false
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSep = false
			continue
		}
		// Whitespace, hyphens, underscores and any other separator collapse to one "_"
		if !prevSep {
			b.WriteRune('_')
			prevSep = true
		}
	}

	return strings.Trim(b.String(), "_")
}

// CollectionName returns the backing collection identifier for a knowledge base name.
func CollectionName(kbName string) string {
	return CollectionPrefix + Normalize(kbName)
}
