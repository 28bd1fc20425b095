package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_CreatesAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")
	f := NewOSFileSystem()

	require.NoError(t, f.WriteFileAtomic(target, []byte("first"), 0o644))
	require.NoError(t, f.WriteFileAtomic(target, []byte("second"), 0o644))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	f := NewOSFileSystem()

	err := f.WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "out.txt"), []byte("x"), 0o644)

	var writeErr *AtomicWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, StageCreateTemp, writeErr.Stage)
}

func TestReadFile_Limits(t *testing.T) {
	dir := t.TempDir()
	f := NewOSFileSystem()
	path := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("a", 64)), 0o644))

	t.Run("within limit", func(t *testing.T) {
		data, err := f.ReadFile(path, 64)
		require.NoError(t, err)
		assert.Len(t, data, 64)
	})

	t.Run("over limit", func(t *testing.T) {
		_, err := f.ReadFile(path, 10)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := f.ReadFile(dir, 0)
		assert.ErrorIs(t, err, ErrIsDirectory)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.ReadFile(filepath.Join(dir, "missing"), 0)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestWalkFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewOSFileSystem()
	require.NoError(t, f.EnsureDirs(filepath.Join(dir, "src", "pkg")))
	require.NoError(t, f.EnsureDirs(filepath.Join(dir, "skipme")))
	for _, p := range []string{"b.txt", "a.txt", "src/pkg/x.go", "skipme/hidden.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, p), []byte("x"), 0o644))
	}

	skip := func(path string, isDir bool) bool {
		return isDir && filepath.Base(path) == "skipme"
	}

	files, err := f.WalkFiles(dir, 0, skip)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "src", "pkg", "x.go"),
	}, files)

	limited, err := f.WalkFiles(dir, 2, skip)
	assert.ErrorIs(t, err, ErrWalkLimit)
	assert.Len(t, limited, 2)
}
