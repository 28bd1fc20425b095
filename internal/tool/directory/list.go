package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	fsvc "github.com/Cyclone1070/agentteam/internal/tool/service/fs"
)

// fileWalker lists regular files below a root.
type fileWalker interface {
	WalkFiles(root string, limit int, skip func(path string, isDir bool) bool) ([]string, error)
}

// pathResolver defines sandbox path resolution operations.
type pathResolver interface {
	Root() string
	Rel(path string) (string, error)
}

// ignoreMatcher filters root-relative paths. nil disables filtering.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

type ListFilesResponse struct {
	Files     []string
	Truncated bool
}

// String renders one root-relative path per line.
func (r *ListFilesResponse) String() string {
	if len(r.Files) == 0 {
		return "(no files)"
	}
	out := strings.Join(r.Files, "\n")
	if r.Truncated {
		out += fmt.Sprintf("\n[truncated after %d files]", len(r.Files))
	}
	return out
}

// ListFilesTool enumerates every file under the sandbox root.
type ListFilesTool struct {
	fs           fileWalker
	pathResolver pathResolver
	ignore       ignoreMatcher
	maxResults   int
}

// NewListFilesTool creates a new ListFilesTool. ignore may be nil.
func NewListFilesTool(fs fileWalker, pathResolver pathResolver, ignore ignoreMatcher, maxResults int) *ListFilesTool {
	if fs == nil {
		panic("fs is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &ListFilesTool{
		fs:           fs,
		pathResolver: pathResolver,
		ignore:       ignore,
		maxResults:   maxResults,
	}
}

// Run returns root-relative, slash-separated paths in lexical order.
func (t *ListFilesTool) Run(ctx context.Context) (*ListFilesResponse, error) {
	root := t.pathResolver.Root()

	var skip func(string, bool) bool
	if t.ignore != nil {
		skip = func(p string, isDir bool) bool {
			rel, err := t.pathResolver.Rel(p)
			if err != nil {
				return true
			}
			return t.ignore.ShouldIgnore(rel, isDir)
		}
	}

	abs, err := t.fs.WalkFiles(root, t.maxResults, skip)
	truncated := errors.Is(err, fsvc.ErrWalkLimit)
	if err != nil && !truncated {
		return nil, fmt.Errorf("list files: %w", err)
	}

	files := make([]string, 0, len(abs))
	for _, p := range abs {
		rel, err := t.pathResolver.Rel(p)
		if err != nil {
			continue
		}
		files = append(files, rel)
	}
	return &ListFilesResponse{Files: files, Truncated: truncated}, nil
}
