package fileops_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fileops"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fileops/backupset"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/model"
)

// writeFile creates path (and parent dirs) with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newTestExecutor builds an executor with backups enabled, a populated
// source tree, and an operation recorder.
func newTestExecutor(t *testing.T) (*fileops.Executor, string, string, *[]fileops.Operation) {
	t.Helper()
	installDir := t.TempDir()
	sourceDir := t.TempDir()

	var ops []fileops.Operation
	exec, err := fileops.NewExecutor(installDir, func(op fileops.Operation) {
		ops = append(ops, op)
	})
	require.NoError(t, err)
	require.NoError(t, exec.EnableBackup(filepath.Join(t.TempDir(), "backup"), "1.2.0", "1.2.1"))
	require.NoError(t, exec.SetSource(sourceDir))

	return exec, installDir, sourceDir, &ops
}

func TestNewExecutor(t *testing.T) {
	t.Run("requires absolute install dir", func(t *testing.T) {
		_, err := fileops.NewExecutor("relative/dir", nil)
		assert.ErrorIs(t, err, fileops.ErrInstallDirInvalid)

		_, err = fileops.NewExecutor("", nil)
		assert.ErrorIs(t, err, fileops.ErrInstallDirInvalid)
	})

	t.Run("nil notify is fine", func(t *testing.T) {
		installDir := t.TempDir()
		sourceDir := t.TempDir()
		writeFile(t, filepath.Join(sourceDir, "a.txt"), "new")

		exec, err := fileops.NewExecutor(installDir, nil)
		require.NoError(t, err)
		require.NoError(t, exec.SetSource(sourceDir))
		require.NoError(t, exec.ReplaceFiles([]string{"a.txt"}))
		assert.Equal(t, "new", readFile(t, filepath.Join(installDir, "a.txt")))
	})
}

func TestEnableBackup(t *testing.T) {
	exec, _, _, _ := newTestExecutor(t)

	t.Run("second enable rejected", func(t *testing.T) {
		err := exec.EnableBackup(filepath.Join(t.TempDir(), "other"), "1.2.0", "1.2.1")
		assert.ErrorIs(t, err, fileops.ErrBackupAlreadyEnabled)
	})

	t.Run("relative backup dir rejected", func(t *testing.T) {
		fresh, err := fileops.NewExecutor(t.TempDir(), nil)
		require.NoError(t, err)
		err = fresh.EnableBackup("relative/backup", "", "")
		assert.ErrorIs(t, err, fileops.ErrBackupDirInvalid)
	})

	t.Run("writes an empty backup set immediately", func(t *testing.T) {
		fresh, err := fileops.NewExecutor(t.TempDir(), nil)
		require.NoError(t, err)
		backupDir := filepath.Join(t.TempDir(), "backup")
		require.NoError(t, fresh.EnableBackup(backupDir, "1.2.0", "1.2.1"))

		set, err := backupset.Load(filepath.Join(backupDir, backupset.FileName))
		require.NoError(t, err)
		assert.Equal(t, "1.2.0", set.FromVersion)
		assert.Equal(t, "1.2.1", set.ToVersion)
		assert.Zero(t, set.Len())
	})
}

func TestSetSource(t *testing.T) {
	exec, _, _, _ := newTestExecutor(t)

	t.Run("missing directory", func(t *testing.T) {
		err := exec.SetSource(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Equal(t, errors.KindApply, errors.ClassifyKind(err))
	})

	t.Run("regular file rejected", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		writeFile(t, file, "x")
		err := exec.SetSource(file)
		assert.ErrorIs(t, err, fileops.ErrNotADirectory)
		assert.Equal(t, errors.KindApply, errors.ClassifyKind(err))
	})
}

func TestReplaceFiles(t *testing.T) {
	t.Run("replaces content atomically", func(t *testing.T) {
		exec, installDir, sourceDir, ops := newTestExecutor(t)
		writeFile(t, filepath.Join(installDir, "conf", "app.yaml"), "old")
		writeFile(t, filepath.Join(sourceDir, "conf", "app.yaml"), "new")

		require.NoError(t, exec.ReplaceFiles([]string{"conf/app.yaml"}))

		assert.Equal(t, "new", readFile(t, filepath.Join(installDir, "conf", "app.yaml")))
		assert.Equal(t, []fileops.Operation{{Type: fileops.OpReplaceFile, Path: "conf/app.yaml"}}, *ops)

		// No temp file may survive a completed replace.
		entries, err := os.ReadDir(filepath.Join(installDir, "conf"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "app.yaml", entries[0].Name())
	})

	t.Run("creates files that did not exist before", func(t *testing.T) {
		exec, installDir, sourceDir, _ := newTestExecutor(t)
		writeFile(t, filepath.Join(sourceDir, "added.txt"), "fresh")

		require.NoError(t, exec.ReplaceFiles([]string{"added.txt"}))
		assert.Equal(t, "fresh", readFile(t, filepath.Join(installDir, "added.txt")))
	})

	t.Run("without source", func(t *testing.T) {
		exec, err := fileops.NewExecutor(t.TempDir(), nil)
		require.NoError(t, err)
		err = exec.ReplaceFiles([]string{"a.txt"})
		assert.ErrorIs(t, err, fileops.ErrSourceNotSet)
		assert.Equal(t, errors.KindApply, errors.ClassifyKind(err))
		assert.True(t, errors.NeedsRollback(err))
	})

	t.Run("source file missing", func(t *testing.T) {
		exec, _, _, ops := newTestExecutor(t)
		err := exec.ReplaceFiles([]string{"ghost.txt"})
		assert.ErrorIs(t, err, fileops.ErrSourceMissing)
		assert.Equal(t, errors.KindApply, errors.ClassifyKind(err))
		assert.True(t, errors.NeedsRollback(err))
		assert.Empty(t, *ops)
	})

	t.Run("source entry is a directory", func(t *testing.T) {
		exec, _, sourceDir, _ := newTestExecutor(t)
		require.NoError(t, os.MkdirAll(filepath.Join(sourceDir, "dirnotfile"), 0o755))
		err := exec.ReplaceFiles([]string{"dirnotfile"})
		assert.ErrorIs(t, err, fileops.ErrNotAFile)
	})

	t.Run("traversal rejected before touching anything", func(t *testing.T) {
		exec, installDir, _, _ := newTestExecutor(t)
		err := exec.ReplaceFiles([]string{"../escape.txt"})
		assert.ErrorIs(t, err, model.ErrPathTraversal)
		assert.NoFileExists(t, filepath.Join(filepath.Dir(installDir), "escape.txt"))
	})
}

func TestReplaceDirectories(t *testing.T) {
	t.Run("swaps whole tree", func(t *testing.T) {
		exec, installDir, sourceDir, ops := newTestExecutor(t)
		writeFile(t, filepath.Join(installDir, "assets", "stale.js"), "stale")
		writeFile(t, filepath.Join(sourceDir, "assets", "app.js"), "fresh")
		writeFile(t, filepath.Join(sourceDir, "assets", "deep", "lib.js"), "lib")

		require.NoError(t, exec.ReplaceDirectories([]string{"assets"}))

		assert.NoFileExists(t, filepath.Join(installDir, "assets", "stale.js"))
		assert.Equal(t, "fresh", readFile(t, filepath.Join(installDir, "assets", "app.js")))
		assert.Equal(t, "lib", readFile(t, filepath.Join(installDir, "assets", "deep", "lib.js")))
		assert.Equal(t, []fileops.Operation{{Type: fileops.OpReplaceDir, Path: "assets"}}, *ops)
	})

	t.Run("source entry is a file", func(t *testing.T) {
		exec, _, sourceDir, _ := newTestExecutor(t)
		writeFile(t, filepath.Join(sourceDir, "filenotdir"), "x")
		err := exec.ReplaceDirectories([]string{"filenotdir"})
		assert.ErrorIs(t, err, fileops.ErrNotADirectory)
	})
}

func TestDeleteItems(t *testing.T) {
	t.Run("removes files and directories", func(t *testing.T) {
		exec, installDir, _, ops := newTestExecutor(t)
		writeFile(t, filepath.Join(installDir, "old.txt"), "x")
		writeFile(t, filepath.Join(installDir, "cache", "blob"), "y")

		require.NoError(t, exec.DeleteItems([]string{"old.txt"}, []string{"cache"}))

		assert.NoFileExists(t, filepath.Join(installDir, "old.txt"))
		assert.NoDirExists(t, filepath.Join(installDir, "cache"))
		assert.Equal(t, []fileops.Operation{
			{Type: fileops.OpDeleteFile, Path: "old.txt"},
			{Type: fileops.OpDeleteDir, Path: "cache"},
		}, *ops)
	})

	t.Run("absent targets are a no-op", func(t *testing.T) {
		exec, _, _, ops := newTestExecutor(t)

		require.NoError(t, exec.DeleteItems([]string{"never/was.txt"}, []string{"never"}))

		// The operations still count as completed for progress purposes.
		assert.Len(t, *ops, 2)
	})

	t.Run("repeating a delete succeeds", func(t *testing.T) {
		exec, installDir, _, _ := newTestExecutor(t)
		writeFile(t, filepath.Join(installDir, "old.txt"), "x")

		require.NoError(t, exec.DeleteItems([]string{"old.txt"}, nil))
		require.NoError(t, exec.DeleteItems([]string{"old.txt"}, nil))
	})

	t.Run("type mismatch", func(t *testing.T) {
		exec, installDir, _, _ := newTestExecutor(t)
		writeFile(t, filepath.Join(installDir, "afile"), "x")
		require.NoError(t, os.MkdirAll(filepath.Join(installDir, "adir"), 0o755))

		err := exec.DeleteItems([]string{"adir"}, nil)
		assert.ErrorIs(t, err, fileops.ErrNotAFile)

		err = exec.DeleteItems(nil, []string{"afile"})
		assert.ErrorIs(t, err, fileops.ErrNotADirectory)
	})
}

func TestRollback(t *testing.T) {
	t.Run("restores three replaced files and a deleted directory", func(t *testing.T) {
		exec, installDir, sourceDir, _ := newTestExecutor(t)

		writeFile(t, filepath.Join(installDir, "bin", "service"), "binary-v1")
		writeFile(t, filepath.Join(installDir, "conf", "app.yaml"), "conf-v1")
		writeFile(t, filepath.Join(installDir, "VERSION"), "1.2.0")
		writeFile(t, filepath.Join(installDir, "plugins", "a.so"), "plugin-a")
		writeFile(t, filepath.Join(installDir, "plugins", "sub", "b.so"), "plugin-b")

		writeFile(t, filepath.Join(sourceDir, "bin", "service"), "binary-v2")
		writeFile(t, filepath.Join(sourceDir, "conf", "app.yaml"), "conf-v2")
		writeFile(t, filepath.Join(sourceDir, "VERSION"), "1.2.1")
		writeFile(t, filepath.Join(sourceDir, "extra.txt"), "added by patch")

		require.NoError(t, exec.ReplaceFiles([]string{"bin/service", "conf/app.yaml", "VERSION"}))
		require.NoError(t, exec.DeleteItems(nil, []string{"plugins"}))
		require.NoError(t, exec.ReplaceFiles([]string{"extra.txt"}))

		// Mutations landed.
		require.Equal(t, "binary-v2", readFile(t, filepath.Join(installDir, "bin", "service")))
		require.NoDirExists(t, filepath.Join(installDir, "plugins"))

		require.NoError(t, exec.Rollback())

		assert.Equal(t, "binary-v1", readFile(t, filepath.Join(installDir, "bin", "service")))
		assert.Equal(t, "conf-v1", readFile(t, filepath.Join(installDir, "conf", "app.yaml")))
		assert.Equal(t, "1.2.0", readFile(t, filepath.Join(installDir, "VERSION")))
		assert.Equal(t, "plugin-a", readFile(t, filepath.Join(installDir, "plugins", "a.so")))
		assert.Equal(t, "plugin-b", readFile(t, filepath.Join(installDir, "plugins", "sub", "b.so")))
		// Files the batch introduced are removed again.
		assert.NoFileExists(t, filepath.Join(installDir, "extra.txt"))
	})

	t.Run("restores a replaced directory", func(t *testing.T) {
		exec, installDir, sourceDir, _ := newTestExecutor(t)
		writeFile(t, filepath.Join(installDir, "assets", "app.js"), "js-v1")
		writeFile(t, filepath.Join(installDir, "assets", "style.css"), "css-v1")
		writeFile(t, filepath.Join(sourceDir, "assets", "app.js"), "js-v2")

		require.NoError(t, exec.ReplaceDirectories([]string{"assets"}))
		require.NoFileExists(t, filepath.Join(installDir, "assets", "style.css"))

		require.NoError(t, exec.Rollback())

		assert.Equal(t, "js-v1", readFile(t, filepath.Join(installDir, "assets", "app.js")))
		assert.Equal(t, "css-v1", readFile(t, filepath.Join(installDir, "assets", "style.css")))
	})

	t.Run("restores deleted items", func(t *testing.T) {
		exec, installDir, _, _ := newTestExecutor(t)
		writeFile(t, filepath.Join(installDir, "legacy.txt"), "keep me")
		writeFile(t, filepath.Join(installDir, "plugins", "a.so"), "plugin")

		require.NoError(t, exec.DeleteItems([]string{"legacy.txt"}, []string{"plugins"}))
		require.NoError(t, exec.Rollback())

		assert.Equal(t, "keep me", readFile(t, filepath.Join(installDir, "legacy.txt")))
		assert.Equal(t, "plugin", readFile(t, filepath.Join(installDir, "plugins", "a.so")))
	})

	t.Run("first capture wins", func(t *testing.T) {
		exec, installDir, sourceDir, _ := newTestExecutor(t)
		writeFile(t, filepath.Join(installDir, "app.yaml"), "original")
		writeFile(t, filepath.Join(sourceDir, "app.yaml"), "second")

		require.NoError(t, exec.ReplaceFiles([]string{"app.yaml"}))
		writeFile(t, filepath.Join(sourceDir, "app.yaml"), "third")
		require.NoError(t, exec.ReplaceFiles([]string{"app.yaml"}))

		require.NoError(t, exec.Rollback())
		assert.Equal(t, "original", readFile(t, filepath.Join(installDir, "app.yaml")))
	})

	t.Run("preserves file modes", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix permissions")
		}
		exec, installDir, sourceDir, _ := newTestExecutor(t)
		writeFile(t, filepath.Join(installDir, "run.sh"), "#!/bin/sh\n")
		require.NoError(t, os.Chmod(filepath.Join(installDir, "run.sh"), 0o755))
		writeFile(t, filepath.Join(sourceDir, "run.sh"), "#!/bin/sh\nexit 1\n")

		require.NoError(t, exec.ReplaceFiles([]string{"run.sh"}))
		require.NoError(t, exec.Rollback())

		info, err := os.Stat(filepath.Join(installDir, "run.sh"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	})

	t.Run("without backup enabled", func(t *testing.T) {
		exec, err := fileops.NewExecutor(t.TempDir(), nil)
		require.NoError(t, err)

		err = exec.Rollback()
		assert.ErrorIs(t, err, fileops.ErrBackupDisabled)
		assert.Equal(t, errors.KindRollback, errors.ClassifyKind(err))
		assert.False(t, errors.NeedsRollback(err))
	})
}

func TestNewExecutorFromBackup(t *testing.T) {
	installDir := t.TempDir()
	sourceDir := t.TempDir()
	backupDir := filepath.Join(t.TempDir(), "backup")

	writeFile(t, filepath.Join(installDir, "conf.yaml"), "before")
	writeFile(t, filepath.Join(sourceDir, "conf.yaml"), "after")

	exec, err := fileops.NewExecutor(installDir, nil)
	require.NoError(t, err)
	require.NoError(t, exec.EnableBackup(backupDir, "1.2.0", "1.2.1"))
	require.NoError(t, exec.SetSource(sourceDir))
	require.NoError(t, exec.ReplaceFiles([]string{"conf.yaml"}))
	require.Equal(t, "after", readFile(t, filepath.Join(installDir, "conf.yaml")))

	// A separate process rolls back from the persisted backup set.
	restored, err := fileops.NewExecutorFromBackup(installDir, backupDir)
	require.NoError(t, err)
	require.NoError(t, restored.Rollback())
	assert.Equal(t, "before", readFile(t, filepath.Join(installDir, "conf.yaml")))

	t.Run("missing backup set", func(t *testing.T) {
		_, err := fileops.NewExecutorFromBackup(installDir, filepath.Join(t.TempDir(), "empty"))
		assert.ErrorIs(t, err, backupset.ErrNotFound)
	})
}

func TestClose(t *testing.T) {
	t.Run("discards the backup root", func(t *testing.T) {
		exec, installDir, sourceDir, _ := newTestExecutor(t)
		writeFile(t, filepath.Join(installDir, "conf.yaml"), "before")
		writeFile(t, filepath.Join(sourceDir, "conf.yaml"), "after")
		require.NoError(t, exec.ReplaceFiles([]string{"conf.yaml"}))

		backupDir := exec.BackupDir()
		require.DirExists(t, backupDir)

		require.NoError(t, exec.Close())
		assert.NoDirExists(t, backupDir)

		// The executor can no longer roll back and Close stays safe.
		err := exec.Rollback()
		assert.ErrorIs(t, err, fileops.ErrBackupDisabled)
		require.NoError(t, exec.Close())
	})

	t.Run("without backup is a no-op", func(t *testing.T) {
		exec, err := fileops.NewExecutor(t.TempDir(), nil)
		require.NoError(t, err)
		require.NoError(t, exec.Close())
	})
}
