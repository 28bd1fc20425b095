package directive

import (
	"strings"

	"github.com/Cyclone1070/agentteam/internal/tool/helper/content"
)

// SplitFragments breaks a raw command into atomic fragments on line breaks,
// "&&" and ";". Fragments are trimmed; blank ones and "#" comments are
// dropped. Quotes give no protection: a separator inside a quoted
// argument splits the command too.
func SplitFragments(raw string) []string {
	var out []string
	for _, line := range content.SplitLines(raw) {
		for _, chained := range strings.Split(line, "&&") {
			for _, frag := range strings.Split(chained, ";") {
				frag = strings.TrimSpace(frag)
				if frag == "" || strings.HasPrefix(frag, "#") {
					continue
				}
				out = append(out, frag)
			}
		}
	}
	return out
}

// IsForbidden reports whether a fragment is a git invocation. Any fragment
// starting with "git" counts.
func IsForbidden(fragment string) bool {
	return strings.HasPrefix(strings.TrimSpace(fragment), "git")
}
