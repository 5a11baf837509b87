//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . ManifestSource,DeploymentState,PackageFetcher,PatchApplier,FullDeployer
package orchestrator

import (
	"context"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/model"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/patch"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
)

// ManifestSource provides the latest release catalog entry.
type ManifestSource interface {
	Latest(ctx context.Context) (*model.ReleaseManifest, error)
}

// DeploymentState is the subset of the deployment state used by the upgrader.
type DeploymentState interface {
	InstallDir() string
	Exists() bool
	CurrentVersion() (version.Version, error)
	RecordVersion(v version.Version) error
}

// PackageFetcher acquires and verifies release packages. It is the subset of
// the patch processor the full-upgrade path uses.
type PackageFetcher interface {
	Download(ctx context.Context, asset patch.Asset, progress func(int64)) (string, error)
	Verify(path, hash, signature string) error
}

// PatchApplier runs one incremental upgrade attempt against the installation.
type PatchApplier interface {
	Apply(ctx context.Context, req patch.Request, tracker patch.Tracker) error
}

// FullDeployer replaces the whole deployment from a verified package. The
// container lifecycle implementation lives outside this module.
type FullDeployer interface {
	Deploy(ctx context.Context, packagePath string, target version.Version) error
}
