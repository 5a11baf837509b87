package deployment_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/archive"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/deployment"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
	"github.com/nuwax-ai/nuwax-cli-sub003/test/testutil"
)

func TestFullInstallerDeploy(t *testing.T) {
	pkg, _ := testutil.BuildPackage(t, testutil.PackageSpec{Files: map[string]string{
		"docker-compose.yml": "services: {}\n",
		"bin/service":        "#!/bin/sh\necho v2\n",
		"conf/app.yaml":      "mode: production\n",
	}})

	installDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(installDir, "local.txt"), []byte("keep me"), 0o644))

	state, err := deployment.NewState(installDir, "")
	require.NoError(t, err)
	installer := &deployment.FullInstaller{State: state, Extractor: archive.NewManager()}

	require.NoError(t, installer.Deploy(context.Background(), pkg, version.MustParse("2.0.0")))

	assert.True(t, state.Exists())
	got, err := os.ReadFile(filepath.Join(installDir, "bin", "service"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "echo v2")

	// Files outside the package survive the deployment.
	kept, err := os.ReadFile(filepath.Join(installDir, "local.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(kept))
}

func TestFullInstallerDeployBadArchive(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "package.tar.gz")
	require.NoError(t, os.WriteFile(garbage, []byte("not an archive"), 0o644))

	state, err := deployment.NewState(t.TempDir(), "")
	require.NoError(t, err)
	installer := &deployment.FullInstaller{State: state, Extractor: archive.NewManager()}

	err = installer.Deploy(context.Background(), garbage, version.MustParse("2.0.0"))
	assert.Error(t, err)
}
