package vault

import (
	"sort"
	"strings"
)

// wikilinkify implements spec §4.4 step 4: for each other existing note name
// found as a substring of content (case-insensitive, first occurrence only,
// never the current entity), replace that occurrence with `[[Name]]` using
// the canonical on-disk casing. Longer names are tried first so a shorter
// name is not linked from the middle of a longer one that also matches.
func wikilinkify(content, currentEntity string, existingNames []string) string {
	candidates := make([]string, 0, len(existingNames))
	for _, n := range existingNames {
		if strings.EqualFold(n, currentEntity) {
			continue
		}
		candidates = append(candidates, n)
	}
	sort.Slice(candidates, func(i, j int) bool { return len(candidates[i]) > len(candidates[j]) })

	out := content
	for _, name := range candidates {
		idx := strings.Index(strings.ToLower(out), strings.ToLower(name))
		if idx < 0 {
			continue
		}
		if strings.Count(out[:idx], "[[") > strings.Count(out[:idx], "]]") {
			continue // first occurrence already sits inside a link
		}
		out = out[:idx] + "[[" + name + "]]" + out[idx+len(name):]
	}
	return out
}
