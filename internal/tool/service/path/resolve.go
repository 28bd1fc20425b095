package path

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps actor-supplied paths onto a fixed sandbox root. Besides
// the lexical check it follows symlinks along the existing part of a path,
// so a link inside the root cannot lead outside it. A link swapped in
// after the check is not caught.
type Resolver struct {
	root string
	real string
}

// NewResolver creates a resolver for root. root is expected to be
// absolute and clean (see CanonicaliseRoot).
func NewResolver(root string) *Resolver {
	r := &Resolver{root: filepath.Clean(root)}
	r.real = r.root
	if resolved, err := filepath.EvalSymlinks(r.root); err == nil {
		r.real = resolved
	}
	return r
}

// Root returns the sandbox root.
func (r *Resolver) Root() string {
	return r.root
}

// CanonicaliseRoot makes root absolute, resolves symlinks and checks
// that it is an existing directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &RootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &RootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &RootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Abs resolves path against the root and rejects anything that lands
// outside it. Absolute inputs are accepted only if they already point
// inside the root.
func (r *Resolver) Abs(path string) (string, error) {
	if r.root == "" || r.root == "." {
		return "", ErrRootNotSet
	}
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}

	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Clean(filepath.Join(r.root, path))
	}

	if !within(r.root, abs) || r.linksOutside(abs) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}
	return abs, nil
}

// linksOutside resolves the deepest existing ancestor of abs below the
// root and reports whether it lands outside the real root.
func (r *Resolver) linksOutside(abs string) bool {
	for p := abs; p != r.root; p = filepath.Dir(p) {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return !within(r.real, resolved)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			// The file operation itself reports this error.
			return false
		}
	}
	return false
}

// within reports whether abs is root itself or below it. The separator
// suffix keeps sibling directories such as /root-evil out.
func within(root, abs string) bool {
	if abs == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(abs, prefix)
}

// Rel returns the slash-separated path of path relative to the root.
// The root itself maps to "".
func (r *Resolver) Rel(path string) (string, error) {
	abs, err := r.Abs(path)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", ErrOutsideWorkspace
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}
