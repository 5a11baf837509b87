package backupset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, FileName)

	set := New()
	set.FromVersion = "1.2.3.2"
	set.ToVersion = "1.2.3.5"
	set.Add(Entry{Path: "web/dist/app.js", Kind: KindFile, BackupName: "0000-app.js"})
	set.Add(Entry{Path: "config/new.yaml", Kind: KindAbsent})
	set.Add(Entry{Path: "web/assets", Kind: KindDir, BackupName: "0002-assets"})

	require.NoError(t, set.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1", loaded.FormatVersion)
	assert.Equal(t, "1.2.3.2", loaded.FromVersion)
	assert.Equal(t, "1.2.3.5", loaded.ToVersion)
	require.Len(t, loaded.Entries, 3)

	want := set.All()
	for i, entry := range loaded.All() {
		assert.Equal(t, want[i].Path, entry.Path)
		assert.Equal(t, want[i].Kind, entry.Kind)
		assert.Equal(t, want[i].BackupName, entry.BackupName)
		assert.False(t, entry.CapturedAt.IsZero(), "capture time must be recorded")
	}
}

func TestSetLookups(t *testing.T) {
	set := New()
	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Has("a.txt"))
	assert.Nil(t, set.Find("a.txt"))

	set.Add(Entry{Path: "a.txt", Kind: KindFile, BackupName: "0000-a.txt"})

	assert.Equal(t, 1, set.Len())
	assert.True(t, set.Has("a.txt"))
	require.NotNil(t, set.Find("a.txt"))
	assert.Equal(t, KindFile, set.Find("a.txt").Kind)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), FileName))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("relative path", func(t *testing.T) {
		_, err := Load("relative/" + FileName)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("corrupt record", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestSaveRejectsRelativePath(t *testing.T) {
	err := New().Save("relative/" + FileName)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPath)
}
