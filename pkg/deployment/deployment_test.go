package deployment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/deployment"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
)

func TestNewState(t *testing.T) {
	t.Run("relative install dir rejected", func(t *testing.T) {
		_, err := deployment.NewState("relative/path", "")
		assert.ErrorIs(t, err, deployment.ErrInstallDirInvalid)
	})

	t.Run("keeps install dir", func(t *testing.T) {
		dir := t.TempDir()
		state, err := deployment.NewState(dir, "")
		require.NoError(t, err)
		assert.Equal(t, dir, state.InstallDir())
	})
}

func TestExists(t *testing.T) {
	t.Run("true when descriptor present", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "docker-compose.yml"), []byte("services: {}\n"), 0o644))

		state, err := deployment.NewState(dir, "")
		require.NoError(t, err)
		assert.True(t, state.Exists())
	})

	t.Run("false in empty directory", func(t *testing.T) {
		state, err := deployment.NewState(t.TempDir(), "")
		require.NoError(t, err)
		assert.False(t, state.Exists())
	})

	t.Run("descriptor directory does not count", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "docker-compose.yml"), 0o755))

		state, err := deployment.NewState(dir, "")
		require.NoError(t, err)
		assert.False(t, state.Exists())
	})

	t.Run("custom descriptor", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "compose.override.yaml"), []byte("services: {}\n"), 0o644))

		state, err := deployment.NewState(dir, "compose.override.yaml")
		require.NoError(t, err)
		assert.True(t, state.Exists())
	})
}

func TestVersionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	state, err := deployment.NewState(dir, "")
	require.NoError(t, err)

	require.NoError(t, state.RecordVersion(version.MustParse("1.2.3.4")))

	got, err := state.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", got.String())

	// Recording again replaces the marker.
	require.NoError(t, state.RecordVersion(version.MustParse("1.2.4")))
	got, err = state.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.2.4", got.String())
}

func TestCurrentVersion(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		state, err := deployment.NewState(t.TempDir(), "")
		require.NoError(t, err)

		_, err = state.CurrentVersion()
		assert.ErrorIs(t, err, deployment.ErrNoVersionFile)
	})

	t.Run("surrounding whitespace tolerated", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, deployment.VersionFileName), []byte("  v2.0.1\n\n"), 0o644))

		state, err := deployment.NewState(dir, "")
		require.NoError(t, err)
		got, err := state.CurrentVersion()
		require.NoError(t, err)
		assert.Equal(t, "2.0.1", got.String())
	})

	t.Run("garbage content", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, deployment.VersionFileName), []byte("not-a-version"), 0o644))

		state, err := deployment.NewState(dir, "")
		require.NoError(t, err)
		_, err = state.CurrentVersion()
		require.Error(t, err)
		assert.Equal(t, errors.KindParse, errors.ClassifyKind(err))
	})
}
