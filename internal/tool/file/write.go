package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// fileWriter defines the minimal filesystem operations needed for writing files.
type fileWriter interface {
	Stat(path string) (os.FileInfo, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	EnsureDirs(path string) error
}

// WriteFileTool creates or overwrites files inside the sandbox.
type WriteFileTool struct {
	fileOps      fileWriter
	pathResolver pathResolver
	maxFileSize  int64
}

// NewWriteFileTool creates a new WriteFileTool with injected dependencies.
func NewWriteFileTool(fileOps fileWriter, pathResolver pathResolver, maxFileSize int64) *WriteFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &WriteFileTool{
		fileOps:      fileOps,
		pathResolver: pathResolver,
		maxFileSize:  maxFileSize,
	}
}

// Run writes req.Content to req.Path, creating missing parent directories.
// Existing files are replaced atomically.
func (t *WriteFileTool) Run(ctx context.Context, req *WriteFileRequest) (*WriteFileResponse, error) {
	if err := req.Validate(t.maxFileSize); err != nil {
		return nil, err
	}

	abs, err := t.pathResolver.Abs(req.Path)
	if err != nil {
		return nil, err
	}
	rel, err := t.pathResolver.Rel(abs)
	if err != nil {
		return nil, err
	}

	created := false
	info, err := t.fileOps.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, rel)
	case err != nil && errors.Is(err, fs.ErrNotExist):
		created = true
	case err != nil:
		return nil, &WriteError{Path: rel, Cause: err}
	}

	parent := filepath.Dir(abs)
	if err := t.fileOps.EnsureDirs(parent); err != nil {
		return nil, &EnsureDirsError{Path: parent, Cause: err}
	}

	data := []byte(req.Content)
	if err := t.fileOps.WriteFileAtomic(abs, data, 0o644); err != nil {
		return nil, &WriteError{Path: rel, Cause: err}
	}

	return &WriteFileResponse{
		RelativePath: rel,
		BytesWritten: len(data),
		Created:      created,
	}, nil
}
