package path

import (
	"errors"
	"fmt"
)

// RootError is returned when a sandbox root cannot be used.
type RootError struct {
	Root  string
	Cause error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid sandbox root %s: %v", e.Root, e.Cause)
}
func (e *RootError) Unwrap() error { return e.Cause }

var (
	ErrOutsideWorkspace = errors.New("path is outside the sandbox root")
	ErrEmptyPath        = errors.New("path is empty")
	ErrRootNotSet       = errors.New("sandbox root not set")
	ErrNotADirectory    = errors.New("not a directory")
	ErrUnsafeRoot       = errors.New("directory is a filesystem root or system directory")
)
