package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/archive"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/integrity"
)

// PackageSpec describes the content of a test package archive.
type PackageSpec struct {
	// Files maps relative forward-slash paths to file content.
	Files map[string]string
	// Dirs lists relative directories to create even when empty.
	Dirs []string
	// PreUpgradeHook and PostUpgradeHook are optional Tengo script bodies
	// shipped under hooks/.
	PreUpgradeHook  string
	PostUpgradeHook string
}

// BuildPackage assembles the spec into a tar.gz archive and returns its path
// and hex-encoded SHA-256 hash.
func BuildPackage(t *testing.T, spec PackageSpec) (string, string) {
	t.Helper()

	stage := t.TempDir()
	for rel, content := range spec.Files {
		writeStaged(t, stage, rel, content)
	}
	for _, rel := range spec.Dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(stage, filepath.FromSlash(rel)), 0o755))
	}
	if spec.PreUpgradeHook != "" {
		writeStaged(t, stage, "hooks/pre-upgrade.tengo", spec.PreUpgradeHook)
	}
	if spec.PostUpgradeHook != "" {
		writeStaged(t, stage, "hooks/post-upgrade.tengo", spec.PostUpgradeHook)
	}

	archivePath := filepath.Join(t.TempDir(), "package.tar.gz")
	require.NoError(t, archive.NewManager().Create(context.Background(), stage, archivePath))

	hash, err := integrity.ChecksumFile(archivePath)
	require.NoError(t, err)
	return archivePath, hash
}

func writeStaged(t *testing.T, stage, rel, content string) {
	t.Helper()
	path := filepath.Join(stage, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
