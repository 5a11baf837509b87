package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/model"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/platform"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
)

func catalogEntry(ver string, withPatch bool) *model.ReleaseManifest {
	manifest := &model.ReleaseManifest{
		Version: version.MustParse(ver),
		Full: map[platform.Arch]model.FullPackage{
			platform.ArchX8664: {URL: "https://releases.example.com/full-x86_64.tar.gz", Signature: "sig"},
		},
		Patches: map[platform.Arch]model.PatchPackage{},
	}
	if withPatch {
		manifest.Patches[platform.ArchX8664] = model.PatchPackage{
			URL:       "https://releases.example.com/patch-x86_64.tar.gz",
			Hash:      "sha256:00",
			Signature: "sig",
			Operations: model.Operations{
				Replace: model.OperationSet{Files: []string{"app/bin/service"}},
			},
		}
	}
	return manifest
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		manifest   *model.ReleaseManifest
		forceFull  bool
		deployed   bool
		wantKind   Kind
		wantReason string
	}{
		{
			name:       "patch step with available patch",
			current:    "1.2.3.2",
			manifest:   catalogEntry("1.2.3.5", true),
			deployed:   true,
			wantKind:   PatchUpgrade,
			wantReason: ReasonPatchAvailable,
		},
		{
			name:       "patch step without patch falls back to full",
			current:    "1.2.3.2",
			manifest:   catalogEntry("1.2.3.5", false),
			deployed:   true,
			wantKind:   FullUpgrade,
			wantReason: ReasonNoUsablePatch,
		},
		{
			name:       "new base version ignores available patch",
			current:    "1.2.3.0",
			manifest:   catalogEntry("1.3.0.0", true),
			deployed:   true,
			wantKind:   FullUpgrade,
			wantReason: ReasonNewBaseVersion,
		},
		{
			name:       "equal versions",
			current:    "1.2.3.5",
			manifest:   catalogEntry("1.2.3.5", true),
			deployed:   true,
			wantKind:   NoUpgrade,
			wantReason: ReasonUpToDate,
		},
		{
			name:       "installed ahead of catalog",
			current:    "1.2.4",
			manifest:   catalogEntry("1.2.3.5", true),
			deployed:   true,
			wantKind:   NoUpgrade,
			wantReason: ReasonInstalledNewer,
		},
		{
			name:       "forced full wins over equality",
			current:    "1.2.3.5",
			manifest:   catalogEntry("1.2.3.5", true),
			forceFull:  true,
			deployed:   true,
			wantKind:   FullUpgrade,
			wantReason: ReasonFullForced,
		},
		{
			name:       "missing deployment forces full",
			current:    "1.2.3.5",
			manifest:   catalogEntry("1.2.3.5", true),
			deployed:   false,
			wantKind:   FullUpgrade,
			wantReason: ReasonNoDeployment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decide(Input{
				Current:          version.MustParse(tt.current),
				Manifest:         tt.manifest,
				Arch:             platform.ArchX8664,
				ForceFull:        tt.forceFull,
				DeploymentExists: tt.deployed,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, tt.manifest.Version, got.Target)
			switch tt.wantKind {
			case PatchUpgrade:
				require.NotNil(t, got.Patch)
				assert.Nil(t, got.Full)
			case FullUpgrade:
				require.NotNil(t, got.Full)
				assert.Nil(t, got.Patch)
			default:
				assert.Nil(t, got.Full)
				assert.Nil(t, got.Patch)
			}
		})
	}
}

// A forced full upgrade and a missing deployment select the same action and
// package; only the reported reason tells the two conditions apart.
func TestDecideForceFullAndMissingDeploymentSelectSameAction(t *testing.T) {
	manifest := catalogEntry("1.2.3.5", true)

	forced, err := Decide(Input{
		Current:          version.MustParse("1.2.3.2"),
		Manifest:         manifest,
		Arch:             platform.ArchX8664,
		ForceFull:        true,
		DeploymentExists: true,
	})
	require.NoError(t, err)

	fresh, err := Decide(Input{
		Current:          version.MustParse("1.2.3.2"),
		Manifest:         manifest,
		Arch:             platform.ArchX8664,
		DeploymentExists: false,
	})
	require.NoError(t, err)

	assert.Equal(t, forced.Kind, fresh.Kind)
	assert.Equal(t, forced.Target, fresh.Target)
	assert.Equal(t, forced.Full, fresh.Full)
	assert.NotEqual(t, forced.Reason, fresh.Reason)
}

func TestDecidePatchMissingVerificationFallsBack(t *testing.T) {
	manifest := catalogEntry("1.2.3.5", true)
	patch := manifest.Patches[platform.ArchX8664]
	patch.Hash = ""
	manifest.Patches[platform.ArchX8664] = patch

	got, err := Decide(Input{
		Current:          version.MustParse("1.2.3.2"),
		Manifest:         manifest,
		Arch:             platform.ArchX8664,
		DeploymentExists: true,
	})

	require.NoError(t, err)
	assert.Equal(t, FullUpgrade, got.Kind)
	assert.Equal(t, ReasonNoUsablePatch, got.Reason)
}

func TestDecideNoFullPackageForArch(t *testing.T) {
	manifest := catalogEntry("1.3.0.0", false)

	_, err := Decide(Input{
		Current:          version.MustParse("1.2.3.0"),
		Manifest:         manifest,
		Arch:             platform.ArchAArch64,
		DeploymentExists: true,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPackageForArch)
	assert.Equal(t, errors.KindManifestValidation, errors.ClassifyKind(err))
}

func TestDecideMinCLIVersionGate(t *testing.T) {
	manifest := catalogEntry("1.2.3.5", true)
	manifest.MinCLIVersion = ">= 0.3.0"

	base := Input{
		Current:          version.MustParse("1.2.3.2"),
		Manifest:         manifest,
		Arch:             platform.ArchX8664,
		DeploymentExists: true,
	}

	t.Run("too old", func(t *testing.T) {
		input := base
		input.CLIVersion = "0.2.9"

		_, err := Decide(input)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCLITooOld)
	})

	t.Run("satisfied", func(t *testing.T) {
		input := base
		input.CLIVersion = "0.3.1"

		got, err := Decide(input)

		require.NoError(t, err)
		assert.Equal(t, PatchUpgrade, got.Kind)
	})

	t.Run("development build skips the gate", func(t *testing.T) {
		input := base
		input.CLIVersion = ""

		_, err := Decide(input)

		require.NoError(t, err)
	})
}

func TestDecideInputValidation(t *testing.T) {
	_, err := Decide(Input{Arch: platform.ArchX8664})
	require.ErrorIs(t, err, ErrNilManifest)

	_, err = Decide(Input{Manifest: catalogEntry("1.0.0", false), Arch: "mips"})
	require.ErrorIs(t, err, ErrInvalidArch)
}
