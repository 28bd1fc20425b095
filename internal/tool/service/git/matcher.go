package git

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ReadError is returned when an existing .gitignore cannot be read.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read .gitignore at %s: %v", e.Path, e.Cause)
}
func (e *ReadError) Unwrap() error { return e.Cause }

type fileReader interface {
	ReadFile(path string, limit int64) ([]byte, error)
}

// IgnoreMatcher filters root-relative paths through the root .gitignore.
// The .git directory is always ignored.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// NewIgnoreMatcher loads <root>/.gitignore. A missing file yields a matcher
// that only hides .git.
func NewIgnoreMatcher(root string, files fileReader) (*IgnoreMatcher, error) {
	if root == "" {
		panic("root is required")
	}
	if files == nil {
		panic("files is required")
	}

	path := filepath.Join(root, ".gitignore")
	data, err := files.ReadFile(path, 1<<20)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &IgnoreMatcher{}, nil
		}
		return nil, &ReadError{Path: path, Cause: err}
	}

	return &IgnoreMatcher{matcher: gitignore.NewMatcher(parsePatterns(data))}, nil
}

func parsePatterns(data []byte) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

// ShouldIgnore reports whether the slash- or OS-separated relative path is
// excluded.
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	segments := splitPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	if segments[0] == ".git" {
		return true
	}
	if m.matcher == nil {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

func splitPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
