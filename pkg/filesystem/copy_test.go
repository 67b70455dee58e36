package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	// umask-proof
	require.NoError(t, os.Chmod(path, mode))
}

func TestCopyTreeCopiesFilesAndModes(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	writeFile(t, filepath.Join(src, "index.js"), "main", 0644)
	writeFile(t, filepath.Join(src, "bin", "run.sh"), "#!/bin/sh", 0755)

	fsys := NewOS()
	require.NoError(t, CopyTree(fsys, src, dst, CopyOptions{}))

	data, err := os.ReadFile(filepath.Join(dst, "index.js"))
	require.NoError(t, err)
	assert.Equal(t, "main", string(data))

	info, err := os.Stat(filepath.Join(dst, "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestCopyTreeFilterExcludes(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	writeFile(t, filepath.Join(src, "keep.js"), "keep", 0644)
	writeFile(t, filepath.Join(src, "drop.log"), "drop", 0644)
	writeFile(t, filepath.Join(src, "skipdir", "inside.js"), "inside", 0644)

	filter := func(rel string) (bool, error) {
		if rel == "skipdir" || strings.HasSuffix(rel, ".log") {
			return false, nil
		}
		return true, nil
	}

	require.NoError(t, CopyTree(NewOS(), src, dst, CopyOptions{Filter: filter}))

	assert.FileExists(t, filepath.Join(dst, "keep.js"))
	assert.NoFileExists(t, filepath.Join(dst, "drop.log"))
	assert.NoDirExists(t, filepath.Join(dst, "skipdir"))
}

func TestCopyTreeFilterErrorAborts(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.js"), "a", 0644)

	boom := assert.AnError
	filter := func(rel string) (bool, error) { return false, boom }

	err := CopyTree(NewOS(), src, filepath.Join(t.TempDir(), "out"), CopyOptions{Filter: filter})
	assert.ErrorIs(t, err, boom)
}

func TestCopyTreePreservesSymlinks(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	writeFile(t, filepath.Join(src, "target.txt"), "content", 0644)
	require.NoError(t, os.Symlink("target.txt", filepath.Join(src, "link")))

	require.NoError(t, CopyTree(NewOS(), src, dst, CopyOptions{}))

	linkDest, err := os.Readlink(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "target.txt", linkDest)
}

func TestCopyTreeDereferencesSymlinks(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	writeFile(t, filepath.Join(src, "target.txt"), "content", 0644)
	require.NoError(t, os.Symlink("target.txt", filepath.Join(src, "link")))

	require.NoError(t, CopyTree(NewOS(), src, dst, CopyOptions{DerefSymlinks: true}))

	info, err := os.Lstat(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Zero(t, info.Mode()&os.ModeSymlink, "link should have been dereferenced")

	data, err := os.ReadFile(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestCopyResourceFileAndDir(t *testing.T) {
	srcRoot := t.TempDir()
	dstDir := t.TempDir()

	writeFile(t, filepath.Join(srcRoot, "notes.txt"), "notes", 0644)
	writeFile(t, filepath.Join(srcRoot, "assets", "logo.png"), "png", 0644)

	fsys := NewOS()
	require.NoError(t, CopyResource(fsys, filepath.Join(srcRoot, "notes.txt"), dstDir))
	require.NoError(t, CopyResource(fsys, filepath.Join(srcRoot, "assets"), dstDir))

	assert.FileExists(t, filepath.Join(dstDir, "notes.txt"))
	assert.FileExists(t, filepath.Join(dstDir, "assets", "logo.png"))
}

func TestMoveDirReplacesDestination(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")

	writeFile(t, filepath.Join(src, "new.txt"), "new", 0644)
	writeFile(t, filepath.Join(dst, "old.txt"), "old", 0644)

	require.NoError(t, MoveDir(NewOS(), src, dst))

	assert.FileExists(t, filepath.Join(dst, "new.txt"))
	assert.NoFileExists(t, filepath.Join(dst, "old.txt"))
	assert.NoDirExists(t, src, "source must be consumed by the move")
}

func TestMoveDirMissingSource(t *testing.T) {
	root := t.TempDir()
	err := MoveDir(NewOS(), filepath.Join(root, "absent"), filepath.Join(root, "dst"))
	assert.Error(t, err)
}

func TestMemoryFSRoundTrip(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/app/sub", 0755))
	require.NoError(t, fsys.WriteFile("/app/sub/file.txt", []byte("x"), 0644))

	data, err := fsys.ReadFile("/app/sub/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	entries, err := fsys.ReadDir("/app")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
}
