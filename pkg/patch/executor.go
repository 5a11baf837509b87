// Package patch turns a selected patch package into filesystem changes. The
// Processor acquires and unpacks packages; the Executor drives one attempt
// through the pipeline and restores the backup when the apply phase fails.
package patch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nuwax-ai/nuwax-cli-sub003/internal/logger"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fileops"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/hooks"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/model"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
)

// Request carries everything one patch attempt needs.
type Request struct {
	// Patch is the package to apply.
	Patch model.PatchPackage
	// CurrentVersion and TargetVersion bracket the upgrade. They are
	// recorded with the backup and exposed to hook scripts.
	CurrentVersion version.Version
	TargetVersion  version.Version
	// InstallDir is the live installation root.
	InstallDir string
	// BackupDir receives pre-mutation captures. Leaving it empty disables
	// backups and with them automatic rollback.
	BackupDir string
}

// Executor drives one patch attempt: download, verify, extract, validate
// structure, run hooks, apply. A failure while applying triggers an automatic
// rollback when a backup was captured. Executors are one-shot and not safe
// for concurrent use; create one per attempt.
type Executor struct {
	id        string
	processor *Processor
	req       Request
	tracker   Tracker

	phase      Phase
	executed   bool
	ops        *fileops.Executor
	restorable bool
}

// NewExecutor creates an executor for one attempt at applying req.
func NewExecutor(processor *Processor, req Request, tracker Tracker) *Executor {
	return &Executor{
		id:        uuid.NewString(),
		processor: processor,
		req:       req,
		tracker:   tracker,
		phase:     PhaseIdle,
	}
}

// ID returns the attempt identifier used in logs and work-area paths.
func (e *Executor) ID() string {
	return e.id
}

// Phase returns the executor's current position in the pipeline.
func (e *Executor) Phase() Phase {
	return e.phase
}

// Execute runs the attempt. Cancellation is honored between stages until the
// apply phase starts; from there the attempt runs to completion or rollback.
func (e *Executor) Execute(ctx context.Context) error {
	if e.executed {
		return ErrAlreadyExecuted
	}
	e.executed = true

	if err := e.preflight(); err != nil {
		return err
	}

	logger.Infof("patch attempt %s: %s -> %s", e.id, e.req.CurrentVersion, e.req.TargetVersion)

	e.setPhase(PhaseDownloading)
	archivePath, err := e.processor.Download(ctx, AssetFromPatch(e.req.Patch), e.tracker.OnDownload)
	if err != nil {
		return err
	}

	if err := e.interrupted(ctx); err != nil {
		return err
	}
	e.setPhase(PhaseVerifying)
	if err := e.processor.Verify(archivePath, e.req.Patch.Hash, e.req.Patch.Signature); err != nil {
		return err
	}

	if err := e.interrupted(ctx); err != nil {
		return err
	}
	e.setPhase(PhaseExtracting)
	sourceDir, err := e.processor.Extract(ctx, archivePath)
	if err != nil {
		return err
	}

	e.setPhase(PhaseValidatingStructure)
	if err := validateStructure(sourceDir, e.req.Patch.Operations); err != nil {
		return err
	}

	hookMgr := hooks.NewTengoExecutor()
	if err := hooks.LoadFromPackageDir(hookMgr, sourceDir); err != nil {
		return errors.NewUpgradeError(errors.KindHook, err, "loading upgrade hooks")
	}
	hookCtx := hooks.HookContext{
		CurrentVersion: e.req.CurrentVersion.String(),
		TargetVersion:  e.req.TargetVersion.String(),
		InstallDir:     e.req.InstallDir,
		PackageDir:     sourceDir,
	}
	if err := hookMgr.Execute(hooks.PreUpgrade, hookCtx); err != nil {
		return err
	}

	// Last cancellation point. Once applying starts the attempt no longer
	// observes the context.
	if err := e.interrupted(ctx); err != nil {
		return err
	}
	e.setPhase(PhaseApplying)
	if err := e.apply(sourceDir); err != nil {
		return e.concludeFailedApply(err)
	}

	if err := hookMgr.Execute(hooks.PostUpgrade, hookCtx); err != nil {
		logger.Warnf("post-upgrade hook failed after a successful apply: %v", err)
	}

	e.setPhase(PhaseCompleted)
	logger.Infof("patch attempt %s completed", e.id)
	return nil
}

// Rollback restores the backup captured by this attempt. It serves callers
// that disabled automatic rollback reporting or want to restore again after
// a partial rollback.
func (e *Executor) Rollback() error {
	if e.ops == nil || !e.restorable {
		return errors.NewUpgradeError(errors.KindRollback, ErrRollbackUnavailable, "rolling back attempt")
	}
	e.setPhase(PhaseRollingBack)
	if err := e.ops.Rollback(); err != nil {
		e.setPhase(PhaseRollbackFailed)
		return err
	}
	e.discardBackup()
	e.setPhase(PhaseRolledBack)
	return nil
}

// discardBackup removes a consumed backup after a successful rollback.
func (e *Executor) discardBackup() {
	e.restorable = false
	if err := e.ops.Close(); err != nil {
		logger.Warnf("failed to discard consumed backup: %v", err)
	}
}

// preflight checks the attempt's preconditions before any stage runs: the
// installation must exist and the patch must declare at least one safe
// operation.
func (e *Executor) preflight() error {
	if e.req.InstallDir == "" || !filepath.IsAbs(e.req.InstallDir) {
		return errors.NewUpgradeErrorf(errors.KindStructuralValidation, fileops.ErrInstallDirInvalid, "%q", e.req.InstallDir)
	}
	if info, err := os.Stat(e.req.InstallDir); err != nil || !info.IsDir() {
		return errors.NewUpgradeErrorf(errors.KindStructuralValidation, ErrInstallDirMissing, "%s", e.req.InstallDir)
	}
	if e.req.Patch.Operations.Count() == 0 {
		return errors.NewUpgradeError(errors.KindManifestValidation, ErrNoOperations, "nothing to apply")
	}
	if err := e.req.Patch.Operations.Validate(); err != nil {
		return errors.NewUpgradeError(errors.KindManifestValidation, err, "patch declares unsafe paths")
	}
	return nil
}

func (e *Executor) apply(sourceDir string) error {
	total := e.req.Patch.Operations.Count()
	completed := 0
	ops, err := fileops.NewExecutor(e.req.InstallDir, func(fileops.Operation) {
		completed++
		if e.tracker.OnApply != nil {
			e.tracker.OnApply(float64(completed) / float64(total))
		}
	})
	if err != nil {
		return errors.NewUpgradeError(errors.KindApply, err, "preparing file operations")
	}
	e.ops = ops

	if e.req.BackupDir != "" {
		if err := ops.EnableBackup(e.req.BackupDir, e.req.CurrentVersion.String(), e.req.TargetVersion.String()); err != nil {
			return errors.NewUpgradeError(errors.KindApply, err, "enabling backup")
		}
		e.restorable = true
	}
	if err := ops.SetSource(sourceDir); err != nil {
		return err
	}

	declared := e.req.Patch.Operations
	if err := ops.ReplaceFiles(declared.Replace.Files); err != nil {
		return err
	}
	if err := ops.ReplaceDirectories(declared.Replace.Directories); err != nil {
		return err
	}
	return ops.DeleteItems(declared.Delete.Files, declared.Delete.Directories)
}

// concludeFailedApply rolls the installation back when a backup exists and
// wraps the outcome so the caller learns both what failed and whether the
// previous state was restored.
func (e *Executor) concludeFailedApply(applyErr error) error {
	logger.Errorf("patch attempt %s failed while applying: %v", e.id, applyErr)
	if !e.restorable {
		return &ApplyReport{ApplyErr: applyErr}
	}
	e.setPhase(PhaseRollingBack)
	if rollbackErr := e.ops.Rollback(); rollbackErr != nil {
		e.setPhase(PhaseRollbackFailed)
		return &ApplyReport{ApplyErr: applyErr, RollbackErr: rollbackErr}
	}
	e.discardBackup()
	e.setPhase(PhaseRolledBack)
	return &ApplyReport{ApplyErr: applyErr, RolledBack: true}
}

func (e *Executor) interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "attempt aborted during %s", e.phase)
	}
	return nil
}

func (e *Executor) setPhase(p Phase) {
	e.phase = p
	logger.Debugf("patch attempt %s: %s", e.id, p)
	if e.tracker.OnPhase != nil {
		e.tracker.OnPhase(p)
	}
}

// validateStructure confirms the extracted tree provides everything the
// declared operations reference, before the live installation is touched.
func validateStructure(sourceDir string, ops model.Operations) error {
	for _, rel := range ops.Replace.Files {
		if err := checkSourceEntry(sourceDir, rel, false); err != nil {
			return err
		}
	}
	for _, rel := range ops.Replace.Directories {
		if err := checkSourceEntry(sourceDir, rel, true); err != nil {
			return err
		}
	}
	return nil
}

func checkSourceEntry(sourceDir, rel string, wantDir bool) error {
	info, err := os.Stat(filepath.Join(sourceDir, filepath.FromSlash(rel)))
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewUpgradeErrorf(errors.KindStructuralValidation, ErrSourceEntryMissing, "%s", rel)
		}
		return errors.NewUpgradeErrorf(errors.KindStructuralValidation, err, "inspecting package entry %s", rel)
	}
	if info.IsDir() != wantDir {
		return errors.NewUpgradeErrorf(errors.KindStructuralValidation, ErrSourceEntryKind, "%s", rel)
	}
	return nil
}

// Applier runs patch attempts with a fresh executor per request, hiding the
// one-shot executor lifecycle from callers that retry.
type Applier struct {
	Processor *Processor
}

// Apply runs one attempt at applying req.
func (a Applier) Apply(ctx context.Context, req Request, tracker Tracker) error {
	return NewExecutor(a.Processor, req, tracker).Execute(ctx)
}
