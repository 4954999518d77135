package match

import (
	"slices"
	"strings"
)

// Patterns merges the user-facing filtering arguments into a single
// pattern list: the match patterns followed by one negation per ignore
// pattern. A nil match list defaults to everything (`*`), an empty one
// matches nothing. ignoreHidden appends `.*` and `.*/`, and each entry
// in extensions appends `*.<ext>`. Duplicates are dropped, first
// occurrence wins.
func Patterns(match, ignore, extensions []string, ignoreHidden bool) []string {
	if match == nil {
		match = []string{"*"}
	}
	ignore = slices.Clone(ignore)
	if ignoreHidden {
		ignore = append(ignore, ".*", ".*/")
	}
	for _, ext := range extensions {
		ignore = append(ignore, "*."+strings.TrimPrefix(ext, "."))
	}

	out := make([]string, 0, len(match)+len(ignore))
	seen := make(map[string]struct{}, len(match)+len(ignore))
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range match {
		add(p)
	}
	for _, p := range ignore {
		add("!" + p)
	}
	return out
}
