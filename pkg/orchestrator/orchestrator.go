// Package orchestrator ties the release catalog, the local deployment and the
// package pipeline together into the check and upgrade flows the CLI exposes.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nuwax-ai/nuwax-cli-sub003/internal/logger"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/model"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/patch"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/platform"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/strategy"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/workdir"
)

// Upgrader ties ManifestSource, DeploymentState and the package pipeline
// together for checks and upgrades. One installation must never be upgraded
// by two processes at once; ensuring that is the caller's job.
type Upgrader struct {
	Manifest   ManifestSource
	Deployment DeploymentState
	Fetcher    PackageFetcher
	Patcher    PatchApplier
	Deployer   FullDeployer
	Work       *workdir.Manager

	// CLIVersion is checked against the catalog's minimum client version.
	// Development builds leave it empty, which skips the gate.
	CLIVersion string
	// Arch overrides the detected architecture when set.
	Arch platform.Arch
	// ForceFull requests the full package even when a patch would bridge
	// the gap.
	ForceFull bool
	// Backup enables pre-mutation captures during patch upgrades, which is
	// what makes rollback possible.
	Backup bool

	Hooks Hooks // Hooks for progress and event notifications
	// Tracker is forwarded to patch attempts and full-package downloads for
	// fine-grained progress. All callbacks are optional.
	Tracker patch.Tracker
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // checking|planning|deploying|done or a patch phase name
	ID    string // target version when known
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// RunOptions control upgrade execution.
type RunOptions struct {
	DryRun bool
}

// Decision is the outcome of a catalog check: the chosen strategy plus the
// context the CLI displays alongside it.
type Decision struct {
	strategy.Strategy
	// Current is the installed version. Meaningful only when Installed.
	Current version.Version
	// Installed reports whether a deployment with a readable version was
	// found.
	Installed bool
	// Manifest is the catalog entry the decision was made against.
	Manifest *model.ReleaseManifest
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Check fetches the latest catalog entry and decides how to bridge the gap
// between it and the installed version. It performs no filesystem mutation.
func (u *Upgrader) Check(ctx context.Context) (Decision, error) {
	if u.Manifest == nil {
		return Decision{}, fmt.Errorf("manifest source is not configured")
	}
	if u.Deployment == nil {
		return Decision{}, fmt.Errorf("deployment state is not configured")
	}
	arch, err := u.arch()
	if err != nil {
		return Decision{}, err
	}

	emit(u.Hooks, Event{Phase: "checking", Msg: "fetching release catalog"})
	manifest, err := u.Manifest.Latest(ctx)
	if err != nil {
		return Decision{}, err
	}

	input := strategy.Input{
		CLIVersion: u.CLIVersion,
		Manifest:   manifest,
		Arch:       arch,
		ForceFull:  u.ForceFull,
	}
	if u.Deployment.Exists() {
		current, err := u.Deployment.CurrentVersion()
		if err != nil {
			// A deployment without a usable version marker offers no patch
			// base and is treated like a fresh install.
			logger.Warnf("cannot establish the installed version: %v", err)
		} else {
			input.Current = current
			input.DeploymentExists = true
		}
	}

	chosen, err := strategy.Decide(input)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Strategy:  chosen,
		Current:   input.Current,
		Installed: input.DeploymentExists,
		Manifest:  manifest,
	}, nil
}

// Run checks the catalog and executes the resulting decision: nothing for
// NoUpgrade, the patch pipeline for PatchUpgrade, download-verify-deploy for
// FullUpgrade. The new version is recorded once the upgrade succeeds. The
// decision is returned alongside the outcome so callers can report what was
// attempted.
func (u *Upgrader) Run(ctx context.Context, opts RunOptions) (Decision, error) {
	decision, err := u.Check(ctx)
	if err != nil {
		return Decision{}, err
	}

	if opts.DryRun {
		emit(u.Hooks, Event{Phase: "planning", ID: decision.Target.String(), Msg: decision.Kind.String() + ": " + decision.Reason})
		emit(u.Hooks, Event{Phase: "done", Msg: "dry-run"})
		return decision, nil
	}

	switch decision.Kind {
	case strategy.NoUpgrade:
		emit(u.Hooks, Event{Phase: "done", Msg: decision.Reason})
		return decision, nil
	case strategy.PatchUpgrade:
		err = u.runPatch(ctx, decision)
	case strategy.FullUpgrade:
		err = u.runFull(ctx, decision)
	}
	if err != nil {
		return decision, err
	}
	emit(u.Hooks, Event{Phase: "done", Msg: "upgraded to " + decision.Target.String()})
	return decision, nil
}

func (u *Upgrader) runPatch(ctx context.Context, decision Decision) error {
	if u.Patcher == nil {
		return fmt.Errorf("patch applier is not configured")
	}
	id := decision.Target.String()
	backupDir, err := u.backupDir(id)
	if err != nil {
		return err
	}
	req := patch.Request{
		Patch:          *decision.Patch,
		CurrentVersion: decision.Current,
		TargetVersion:  decision.Target,
		InstallDir:     u.Deployment.InstallDir(),
		BackupDir:      backupDir,
	}
	tracker := patch.Tracker{
		OnPhase: func(ph patch.Phase) {
			emit(u.Hooks, Event{Phase: ph.String(), ID: id})
			if u.Tracker.OnPhase != nil {
				u.Tracker.OnPhase(ph)
			}
		},
		OnDownload: u.Tracker.OnDownload,
		OnApply:    u.Tracker.OnApply,
	}
	if err := u.Patcher.Apply(ctx, req, tracker); err != nil {
		return err
	}
	if err := u.Deployment.RecordVersion(decision.Target); err != nil {
		return errors.Wrap(err, "patch applied but recording the new version failed")
	}
	return nil
}

func (u *Upgrader) runFull(ctx context.Context, decision Decision) error {
	if u.Fetcher == nil {
		return fmt.Errorf("package fetcher is not configured")
	}
	if u.Deployer == nil {
		return fmt.Errorf("full deployer is not configured")
	}
	id := decision.Target.String()
	asset := patch.AssetFromFull(*decision.Full)

	emit(u.Hooks, Event{Phase: "downloading", ID: id, Msg: asset.URL})
	path, err := u.Fetcher.Download(ctx, asset, u.Tracker.OnDownload)
	if err != nil {
		return err
	}
	emit(u.Hooks, Event{Phase: "verifying", ID: id, Msg: filepath.Base(path)})
	if err := u.Fetcher.Verify(path, asset.Hash, asset.Signature); err != nil {
		return err
	}
	emit(u.Hooks, Event{Phase: "deploying", ID: id})
	if err := u.Deployer.Deploy(ctx, path, decision.Target); err != nil {
		return err
	}
	if err := u.Deployment.RecordVersion(decision.Target); err != nil {
		return errors.Wrap(err, "deployment succeeded but recording the new version failed")
	}
	return nil
}

// backupDir mints a fresh backup directory for one attempt, or returns empty
// when backups are disabled.
func (u *Upgrader) backupDir(target string) (string, error) {
	if !u.Backup {
		return "", nil
	}
	if u.Work == nil {
		return "", fmt.Errorf("work area is not configured")
	}
	return u.Work.NewBackupDir(target), nil
}

func (u *Upgrader) arch() (platform.Arch, error) {
	if u.Arch != "" {
		if !u.Arch.IsValid() {
			return "", fmt.Errorf("%w: %s", platform.ErrUnsupportedArch, u.Arch)
		}
		return u.Arch, nil
	}
	return platform.Detect()
}
