package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_File_SameFilesystem(t *testing.T) {
	tempDir := t.TempDir()

	srcFile := filepath.Join(tempDir, "source.txt")
	dstFile := filepath.Join(tempDir, "destination.txt")

	content := "Hello, World!"
	err := os.WriteFile(srcFile, []byte(content), 0o644)
	require.NoError(t, err)

	err = Move(srcFile, dstFile)
	require.NoError(t, err)

	movedContent, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, content, string(movedContent))

	_, err = os.Stat(srcFile)
	assert.True(t, os.IsNotExist(err))
}

func TestMove_Directory_SameFilesystem(t *testing.T) {
	tempDir := t.TempDir()

	srcDir := filepath.Join(tempDir, "source_dir")
	dstDir := filepath.Join(tempDir, "destination_dir")

	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "subdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "file1.txt"), []byte("content1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "subdir", "file2.txt"), []byte("content2"), 0o644))

	err := Move(srcDir, dstDir)
	require.NoError(t, err)

	movedContent1, err := os.ReadFile(filepath.Join(dstDir, "file1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content1", string(movedContent1))

	movedContent2, err := os.ReadFile(filepath.Join(dstDir, "subdir", "file2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content2", string(movedContent2))

	_, err = os.Stat(srcDir)
	assert.True(t, os.IsNotExist(err))
}

func TestMove_File_PreservePermissions(t *testing.T) {
	tempDir := t.TempDir()

	srcFile := filepath.Join(tempDir, "source.txt")
	dstFile := filepath.Join(tempDir, "destination.txt")

	err := os.WriteFile(srcFile, []byte("Hello, World!"), 0o755)
	require.NoError(t, err)

	srcInfo, err := os.Stat(srcFile)
	require.NoError(t, err)
	originalMode := srcInfo.Mode()

	err = Move(srcFile, dstFile)
	require.NoError(t, err)

	dstInfo, err := os.Stat(dstFile)
	require.NoError(t, err)
	assert.Equal(t, originalMode, dstInfo.Mode())
}

func TestMove_SourceDoesNotExist(t *testing.T) {
	tempDir := t.TempDir()

	err := Move(filepath.Join(tempDir, "nonexistent.txt"), filepath.Join(tempDir, "destination.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat source")
}

func TestMove_InvalidPaths(t *testing.T) {
	err := Move("", "destination.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source and destination paths cannot be empty")

	err = Move("source.txt", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source and destination paths cannot be empty")
}

func TestIsCrossFilesystemError(t *testing.T) {
	assert.False(t, isCrossFilesystemError(nil))
	assert.False(t, isCrossFilesystemError(errors.New("regular error")))
	assert.True(t, isCrossFilesystemError(errors.New("invalid cross-device link")))
}

func TestCopy(t *testing.T) {
	tempDir := t.TempDir()

	srcFile := filepath.Join(tempDir, "source.txt")
	dstFile := filepath.Join(tempDir, "destination.txt")

	content := "Copy test content"
	err := os.WriteFile(srcFile, []byte(content), 0o644)
	require.NoError(t, err)

	err = Copy(srcFile, dstFile)
	require.NoError(t, err)

	copiedContent, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, content, string(copiedContent))

	// Source is untouched, unlike Move.
	_, err = os.Stat(srcFile)
	require.NoError(t, err)
}

func TestCopyDir(t *testing.T) {
	tempDir := t.TempDir()

	srcDir := filepath.Join(tempDir, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "app.bin"), []byte("binary"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "conf", "app.yaml"), []byte("key: value"), 0o644))

	dstDir := filepath.Join(tempDir, "copy")
	err := CopyDir(srcDir, dstDir)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dstDir, "conf", "app.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "key: value", string(content))

	info, err := os.Stat(filepath.Join(dstDir, "app.bin"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	// Source remains in place.
	assert.DirExists(t, srcDir)
}

func TestCopyDir_SourceIsFile(t *testing.T) {
	tempDir := t.TempDir()

	srcFile := filepath.Join(tempDir, "file.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("x"), 0o644))

	err := CopyDir(srcFile, filepath.Join(tempDir, "copy"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestAtomicWriteFile(t *testing.T) {
	tempDir := t.TempDir()

	target := filepath.Join(tempDir, "state", "version")

	err := AtomicWriteFile(target, []byte("1.2.3.4"), 0o644)
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", string(content))

	// Overwrite leaves no temp files behind.
	err = AtomicWriteFile(target, []byte("1.2.3.5"), 0o644)
	require.NoError(t, err)

	content, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.5", string(content))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "version", entries[0].Name())
}

func TestAtomicCopyFile(t *testing.T) {
	tempDir := t.TempDir()

	src := filepath.Join(tempDir, "source.bin")
	require.NoError(t, os.WriteFile(src, []byte("new content"), 0o644))
	require.NoError(t, os.Chmod(src, 0o755))

	dst := filepath.Join(tempDir, "deployed", "service.bin")
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(dst, []byte("old content"), 0o644))

	require.NoError(t, AtomicCopyFile(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(content))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp file may remain next to the target")

	t.Run("directory source is rejected", func(t *testing.T) {
		err := AtomicCopyFile(tempDir, dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})

	t.Run("missing source", func(t *testing.T) {
		err := AtomicCopyFile(filepath.Join(tempDir, "absent.bin"), dst)
		require.Error(t, err)
	})
}

func TestCreateFilePerm(t *testing.T) {
	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "test.txt")
	perm := os.FileMode(0o755)

	file, err := CreateFilePerm(testFile, perm)
	require.NoError(t, err)

	_, err = file.WriteString("test content")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	info, err := os.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, perm, info.Mode())
}
