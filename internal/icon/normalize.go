package icon

import "strings"

// formatMarker is the in-game formatting control character; it is always
// followed by one code rune, and both are stripped.
const formatMarker = '§'

// StripFormatting removes formatting control sequences from a display
// name and trims surrounding whitespace.
func StripFormatting(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	skip := false
	for _, r := range name {
		if skip {
			skip = false
			continue
		}
		if r == formatMarker {
			skip = true
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// NormalizeKey reduces a display name to its lookup form: formatting codes
// stripped, lowercased, every non-alphanumeric rune removed.
func NormalizeKey(name string) string {
	clean := strings.ToLower(StripFormatting(name))

	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slugify reduces a display name to a filename-safe key: formatting codes
// stripped, lowercased, non-alphanumeric runs collapsed to single
// underscores, leading and trailing underscores trimmed.
func Slugify(name string) string {
	clean := strings.ToLower(StripFormatting(name))

	var b strings.Builder
	b.Grow(len(clean))
	pendingSep := false
	for _, r := range clean {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
