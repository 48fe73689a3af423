package slugify

import "strings"

// Make normalizes a human title into a URL-safe slug: lowercase, whitespace
// runs collapsed to a single hyphen, everything outside [a-z0-9-] stripped,
// repeated hyphens collapsed, leading/trailing hyphens trimmed.
func Make(source string) string {
	s := strings.ToLower(strings.TrimSpace(source))

	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ', r == '\t', r == '\n', r == '-', r == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		default:
			// dropped
		}
	}

	return strings.TrimRight(b.String(), "-")
}
