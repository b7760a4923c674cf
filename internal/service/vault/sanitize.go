package vault

import "strings"

// invalidFilenameChars are replaced with "_" in note file names (spec §4.4
// step 1a: `sanitize` replaces `<>:"/\|?*`).
const invalidFilenameChars = `<>:"/\|?*`

// sanitize maps an entity name to a filesystem-safe file stem.
func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(invalidFilenameChars, r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func noteFileName(name string) string {
	return sanitize(name) + ".md"
}
