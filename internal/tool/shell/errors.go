package shell

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCommand     = errors.New("command cannot be empty")
	ErrUnbalancedQuotes = errors.New("unbalanced quotes in command")
)

// DeniedError is returned for executables on the configured deny list.
type DeniedError struct {
	Executable string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("executable %q is not allowed", e.Executable)
}
