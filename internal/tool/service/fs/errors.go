package fs

import (
	"errors"
	"fmt"
)

// WriteStage names the step of an atomic write that failed.
type WriteStage string

const (
	StageCreateTemp WriteStage = "create temp"
	StageWrite      WriteStage = "write"
	StageSync       WriteStage = "sync"
	StageClose      WriteStage = "close"
	StageRename     WriteStage = "rename"
	StageChmod      WriteStage = "chmod"
)

// AtomicWriteError is returned by WriteFileAtomic.
type AtomicWriteError struct {
	Stage WriteStage
	Path  string
	Cause error
}

func (e *AtomicWriteError) Error() string {
	return fmt.Sprintf("atomic write %s: %s failed: %v", e.Path, e.Stage, e.Cause)
}
func (e *AtomicWriteError) Unwrap() error { return e.Cause }

// TooLargeError is returned when a file exceeds the read limit.
type TooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, limit is %d", e.Path, e.Size, e.Limit)
}
func (e *TooLargeError) Is(target error) bool { return target == ErrTooLarge }

var (
	ErrTooLarge    = errors.New("file too large")
	ErrIsDirectory = errors.New("path is a directory")
	ErrWalkLimit   = errors.New("walk result limit reached")
)
