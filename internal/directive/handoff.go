package directive

import (
	"regexp"
	"strings"
)

var handoffPattern = regexp.MustCompile(`(?i)\[HANDOFF TO\s+(.*?)\]`)

// ParseHandoff returns the target named by the first [HANDOFF TO <Name>]
// marker in text, with trailing '.', '!' and '?' trimmed. The name is not
// checked against any roster.
func ParseHandoff(text string) (string, bool) {
	m := handoffPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name := strings.TrimRight(strings.TrimSpace(m[1]), ".!?")
	return strings.TrimSpace(name), true
}

// HasHandoff reports whether text contains a handoff marker.
func HasHandoff(text string) bool {
	return handoffPattern.MatchString(text)
}
