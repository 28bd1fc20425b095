package research

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("research is not configured")
	ErrEmptyQuery    = errors.New("query cannot be empty")
)

// StatusError is returned for non-2xx responses from the search API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search API returned %d: %s", e.StatusCode, e.Body)
}
