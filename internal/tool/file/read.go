package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/Cyclone1070/agentteam/internal/tool/helper/content"
	fsvc "github.com/Cyclone1070/agentteam/internal/tool/service/fs"
)

// fileReader defines the minimal filesystem operations needed for reading files.
type fileReader interface {
	ReadFile(path string, limit int64) ([]byte, error)
}

// ReadFileTool returns the content of text files inside the sandbox.
type ReadFileTool struct {
	fileOps      fileReader
	pathResolver pathResolver
	maxFileSize  int64
}

// NewReadFileTool creates a new ReadFileTool with injected dependencies.
func NewReadFileTool(fileOps fileReader, pathResolver pathResolver, maxFileSize int64) *ReadFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &ReadFileTool{
		fileOps:      fileOps,
		pathResolver: pathResolver,
		maxFileSize:  maxFileSize,
	}
}

// Run reads the whole file. Missing files report ErrFileMissing;
// directories, binaries and oversized files are refused.
func (t *ReadFileTool) Run(ctx context.Context, req *ReadFileRequest) (*ReadFileResponse, error) {
	if err := req.Validate(); err != nil {
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

	data, err := t.fileOps.ReadFile(abs, t.maxFileSize)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrFileMissing, rel)
	case errors.Is(err, fsvc.ErrIsDirectory):
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, rel)
	case errors.Is(err, fsvc.ErrTooLarge):
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, rel)
	default:
		return nil, err
	}

	if content.IsBinaryContent(data) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryFile, rel)
	}

	return &ReadFileResponse{
		RelativePath: rel,
		Content:      string(data),
		Size:         int64(len(data)),
	}, nil
}
