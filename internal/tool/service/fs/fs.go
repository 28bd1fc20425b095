package fs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// OSFileSystem implements the filesystem operations the sandbox needs on
// top of the local OS.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Stat returns file info for a path (follows symlinks).
func (f *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads a whole regular file, refusing directories and files
// larger than limit. A limit <= 0 disables the size check.
func (f *OSFileSystem) ReadFile(path string, limit int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrIsDirectory
	}
	if limit > 0 && info.Size() > limit {
		return nil, &TooLargeError{Path: path, Size: info.Size(), Limit: limit}
	}

	return io.ReadAll(file)
}

// WriteFileAtomic writes content to a temp file in the target directory
// and renames it over path. A crash mid-write leaves the old file intact.
func (f *OSFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return &AtomicWriteError{Stage: StageCreateTemp, Path: path, Cause: err}
	}

	tmpPath := tmpFile.Name()
	committed := false
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
		}
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		return &AtomicWriteError{Stage: StageWrite, Path: path, Cause: err}
	}
	if err := tmpFile.Sync(); err != nil {
		return &AtomicWriteError{Stage: StageSync, Path: path, Cause: err}
	}
	closeErr := tmpFile.Close()
	tmpFile = nil
	if closeErr != nil {
		return &AtomicWriteError{Stage: StageClose, Path: path, Cause: closeErr}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return &AtomicWriteError{Stage: StageRename, Path: path, Cause: err}
	}
	committed = true

	if err := os.Chmod(path, perm); err != nil {
		return &AtomicWriteError{Stage: StageChmod, Path: path, Cause: err}
	}
	return nil
}

// EnsureDirs creates path and its parents if they don't exist.
func (f *OSFileSystem) EnsureDirs(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WalkFiles returns the absolute paths of all regular files below root in
// lexical order. skip is consulted for every entry; returning true for a
// directory prunes it. At most limit files are returned; hitting the limit
// returns the files found so far together with ErrWalkLimit.
func (f *OSFileSystem) WalkFiles(root string, limit int, skip func(path string, isDir bool) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if skip != nil && skip(path, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if limit > 0 && len(files) >= limit {
			return ErrWalkLimit
		}
		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	if err != nil && !errors.Is(err, ErrWalkLimit) {
		return nil, err
	}
	return files, err
}
