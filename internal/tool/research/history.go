package research

import "fmt"

// History remembers which searches a session already ran so repeated
// identical queries can be flagged. It is owned by the session that
// creates it and is not safe for concurrent use.
type History struct {
	seen map[string]struct{}
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{seen: make(map[string]struct{})}
}

// Record notes the search and reports whether it had been run before.
func (h *History) Record(query string, count, start int) (repeated bool) {
	key := fmt.Sprintf("%s|%d|%d", query, count, start)
	if _, ok := h.seen[key]; ok {
		return true
	}
	h.seen[key] = struct{}{}
	return false
}

// Len returns the number of distinct searches recorded.
func (h *History) Len() int {
	return len(h.seen)
}
