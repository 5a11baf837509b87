// Package strategy decides which kind of upgrade bridges the gap between the
// installed version and the release catalog. The decision is a pure function
// of its input; it performs no I/O.
package strategy

import (
	goversion "github.com/hashicorp/go-version"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/model"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/platform"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
)

// Kind enumerates the possible upgrade decisions.
type Kind int

const (
	// NoUpgrade means the installation is already current.
	NoUpgrade Kind = iota
	// PatchUpgrade means an incremental patch bridges the gap.
	PatchUpgrade
	// FullUpgrade means the complete package must be installed.
	FullUpgrade
)

// String returns the human-readable name of the decision kind.
func (k Kind) String() string {
	switch k {
	case NoUpgrade:
		return "no-upgrade"
	case PatchUpgrade:
		return "patch-upgrade"
	case FullUpgrade:
		return "full-upgrade"
	default:
		return "unknown"
	}
}

// Reasons attached to decisions for user-facing messaging. A forced full
// upgrade and a missing deployment select the same action but report
// different reasons.
const (
	ReasonUpToDate       = "already up to date"
	ReasonInstalledNewer = "installed version is newer than the catalog"
	ReasonFullForced     = "full upgrade was requested"
	ReasonNoDeployment   = "no prior deployment found"
	ReasonPatchAvailable = "patch available for the installed base version"
	ReasonNoUsablePatch  = "no usable patch for this architecture, falling back to the full package"
	ReasonNewBaseVersion = "new base version requires the full package"
)

// Input carries everything a decision depends on.
type Input struct {
	// Current is the deployed service version. It is ignored when
	// DeploymentExists is false.
	Current version.Version
	// CLIVersion is the version of the running client, used to honor the
	// catalog's minimum client requirement. An empty or unparsable value
	// skips that check.
	CLIVersion string
	// Manifest is the normalized release catalog entry.
	Manifest *model.ReleaseManifest
	// Arch selects which per-architecture packages are considered.
	Arch platform.Arch
	// ForceFull requests a full upgrade regardless of version comparison.
	ForceFull bool
	// DeploymentExists reports whether a prior deployment was found.
	DeploymentExists bool
}

// Strategy is the outcome of a decision: the action to take and the package
// that implements it.
type Strategy struct {
	Kind   Kind
	Target version.Version
	Reason string
	// Full is set when Kind is FullUpgrade.
	Full *model.FullPackage
	// Patch is set when Kind is PatchUpgrade.
	Patch *model.PatchPackage
}

// Decide applies the decision rules in order: client gate, forced full,
// missing deployment, version comparison. Earlier rules win.
func Decide(input Input) (Strategy, error) {
	if input.Manifest == nil {
		return Strategy{}, errors.NewUpgradeError(errors.KindManifestValidation, ErrNilManifest, "deciding upgrade")
	}
	if !input.Arch.IsValid() {
		return Strategy{}, errors.NewUpgradeErrorf(errors.KindManifestValidation, ErrInvalidArch, "deciding upgrade for %q", input.Arch)
	}
	if err := checkCLIVersion(input); err != nil {
		return Strategy{}, err
	}

	if input.ForceFull {
		return fullUpgrade(input, ReasonFullForced)
	}
	if !input.DeploymentExists {
		return fullUpgrade(input, ReasonNoDeployment)
	}

	target := input.Manifest.Version
	comparison := input.Current.CompareDetailed(target)
	switch comparison {
	case version.Equal:
		return Strategy{Kind: NoUpgrade, Target: target, Reason: ReasonUpToDate}, nil
	case version.Newer:
		return Strategy{Kind: NoUpgrade, Target: target, Reason: ReasonInstalledNewer}, nil
	case version.PatchUpgradeable:
		if patch, ok := input.Manifest.PatchFor(input.Arch); ok {
			return Strategy{Kind: PatchUpgrade, Target: target, Reason: ReasonPatchAvailable, Patch: &patch}, nil
		}
		return fullUpgrade(input, ReasonNoUsablePatch)
	default: // version.FullUpgradeRequired
		return fullUpgrade(input, ReasonNewBaseVersion)
	}
}

func fullUpgrade(input Input, reason string) (Strategy, error) {
	pkg, ok := input.Manifest.FullFor(input.Arch)
	if !ok {
		return Strategy{}, errors.NewUpgradeErrorf(errors.KindManifestValidation, ErrNoPackageForArch,
			"selecting full package for %s", input.Arch)
	}
	return Strategy{Kind: FullUpgrade, Target: input.Manifest.Version, Reason: reason, Full: &pkg}, nil
}

// checkCLIVersion enforces the catalog's minimum client version. Clients with
// no version stamp (development builds) skip the check.
func checkCLIVersion(input Input) error {
	if input.Manifest.MinCLIVersion == "" || input.CLIVersion == "" {
		return nil
	}
	constraint, err := goversion.NewConstraint(input.Manifest.MinCLIVersion)
	if err != nil {
		return errors.NewUpgradeErrorf(errors.KindManifestValidation, err,
			"parsing min_cli_version %q", input.Manifest.MinCLIVersion)
	}
	cli, err := goversion.NewVersion(input.CLIVersion)
	if err != nil {
		return nil
	}
	if !constraint.Check(cli) {
		return errors.NewUpgradeErrorf(errors.KindManifestValidation, ErrCLITooOld,
			"release %s requires client %s, running %s", input.Manifest.Version, input.Manifest.MinCLIVersion, input.CLIVersion)
	}
	return nil
}
