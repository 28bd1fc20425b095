package file

import (
	"errors"
	"fmt"
)

var (
	ErrFileMissing  = errors.New("file does not exist")
	ErrBinaryFile   = errors.New("file is binary")
	ErrFileTooLarge = errors.New("file too large")
	ErrIsDirectory  = errors.New("path is a directory")
	ErrPathRequired = errors.New("path is required")
)

// WriteError wraps a failure of the underlying atomic write.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}
func (e *WriteError) Unwrap() error { return e.Cause }

// EnsureDirsError wraps a failure to create parent directories.
type EnsureDirsError struct {
	Path  string
	Cause error
}

func (e *EnsureDirsError) Error() string {
	return fmt.Sprintf("failed to create directories %s: %v", e.Path, e.Cause)
}
func (e *EnsureDirsError) Unwrap() error { return e.Cause }
