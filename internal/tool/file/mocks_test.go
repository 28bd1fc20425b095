package file

import (
	"os"
	"path/filepath"
	"time"

	fsvc "github.com/Cyclone1070/agentteam/internal/tool/service/fs"
)

type mockFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return 0o644 }
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }

// mockFileSystem keeps files and directories in maps keyed by absolute path.
type mockFileSystem struct {
	files           map[string][]byte
	dirs            map[string]bool
	operationErrors map[string]error
}

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{
		files:           make(map[string][]byte),
		dirs:            make(map[string]bool),
		operationErrors: make(map[string]error),
	}
}

func (m *mockFileSystem) Stat(path string) (os.FileInfo, error) {
	if err := m.operationErrors["Stat"]; err != nil {
		return nil, err
	}
	if m.dirs[path] {
		return &mockFileInfo{name: filepath.Base(path), isDir: true}, nil
	}
	if data, ok := m.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(data))}, nil
	}
	return nil, os.ErrNotExist
}

func (m *mockFileSystem) ReadFile(path string, limit int64) ([]byte, error) {
	if err := m.operationErrors["ReadFile"]; err != nil {
		return nil, err
	}
	if m.dirs[path] {
		return nil, fsvc.ErrIsDirectory
	}
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, &fsvc.TooLargeError{Path: path, Size: int64(len(data)), Limit: limit}
	}
	return data, nil
}

func (m *mockFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	if err := m.operationErrors["WriteFileAtomic"]; err != nil {
		return err
	}
	if !m.dirs[filepath.Dir(path)] {
		return os.ErrNotExist
	}
	m.files[path] = content
	return nil
}

func (m *mockFileSystem) EnsureDirs(path string) error {
	if err := m.operationErrors["EnsureDirs"]; err != nil {
		return err
	}
	for p := path; p != "/" && p != "."; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}
