// Package fileops applies the file and directory operations of a patch below
// a fixed installation root, capturing prior state so a failed apply can be
// rolled back.
package fileops

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fileops/backupset"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fsutil"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/model"
)

// dataDirName is the subdirectory of the backup root that holds captured copies.
const dataDirName = "data"

// OperationType identifies one kind of file operation.
type OperationType string

// Operation types reported through NotifyFunc.
const (
	OpReplaceFile OperationType = "replace-file"
	OpReplaceDir  OperationType = "replace-dir"
	OpDeleteFile  OperationType = "delete-file"
	OpDeleteDir   OperationType = "delete-dir"
)

// Operation describes one completed file operation.
type Operation struct {
	Type OperationType
	Path string
}

// NotifyFunc receives each completed operation, for progress reporting.
type NotifyFunc func(op Operation)

// Executor applies replace and delete operations below a fixed installation
// root. Before the first mutation of a path its previous state is captured
// into the backup set; Rollback restores everything captured. The executor
// is not safe for concurrent use; one upgrade attempt drives one executor.
type Executor struct {
	installDir string
	sourceDir  string
	backupDir  string
	set        *backupset.Set
	notify     NotifyFunc
}

// NewExecutor creates an executor rooted at installDir. notify may be nil.
func NewExecutor(installDir string, notify NotifyFunc) (*Executor, error) {
	if installDir == "" || !filepath.IsAbs(installDir) {
		return nil, fmt.Errorf("%w: %q", ErrInstallDirInvalid, installDir)
	}
	return &Executor{installDir: installDir, notify: notify}, nil
}

// NewExecutorFromBackup rehydrates an executor from a previously written
// backup directory, for rolling back outside the upgrade attempt that
// created it.
func NewExecutorFromBackup(installDir, backupDir string) (*Executor, error) {
	if installDir == "" || !filepath.IsAbs(installDir) {
		return nil, fmt.Errorf("%w: %q", ErrInstallDirInvalid, installDir)
	}
	set, err := backupset.Load(filepath.Join(backupDir, backupset.FileName))
	if err != nil {
		return nil, err
	}
	return &Executor{installDir: installDir, backupDir: backupDir, set: set}, nil
}

// EnableBackup creates the backup directory and starts capturing prior state.
// Without it mutations proceed unprotected and Rollback refuses to run. The
// from and to versions are recorded for later inspection of the backup.
func (e *Executor) EnableBackup(backupDir, fromVersion, toVersion string) error {
	if e.set != nil {
		return errors.Wrapf(ErrBackupAlreadyEnabled, "at %s", e.backupDir)
	}
	if backupDir == "" || !filepath.IsAbs(backupDir) {
		return fmt.Errorf("%w: %q", ErrBackupDirInvalid, backupDir)
	}

	if err := fsutil.EnsureDirPerm(filepath.Join(backupDir, dataDirName), fsutil.DirModePrivate); err != nil {
		return errors.Wrap(err, "failed to create backup directory")
	}

	e.backupDir = backupDir
	e.set = backupset.New()
	e.set.FromVersion = fromVersion
	e.set.ToVersion = toVersion
	return e.saveSet()
}

// SetSource points the executor at the extracted package tree that replace
// operations copy from.
func (e *Executor) SetSource(sourceDir string) error {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return errors.NewUpgradeError(errors.KindApply, err, "source directory unusable")
	}
	if !info.IsDir() {
		return errors.NewUpgradeErrorf(errors.KindApply, ErrNotADirectory, "source %s", sourceDir)
	}
	e.sourceDir = sourceDir
	return nil
}

// BackupDir returns the backup directory, or "" when backups are disabled.
func (e *Executor) BackupDir() string {
	return e.backupDir
}

// ReplaceFiles copies each listed file from the source tree over the same
// path below the installation root. Each file lands atomically: readers see
// the old or the new content, never a torn write.
func (e *Executor) ReplaceFiles(paths []string) error {
	if err := e.requireSource(); err != nil {
		return err
	}
	for _, rel := range paths {
		if err := e.replaceFile(rel); err != nil {
			return errors.NewUpgradeErrorf(errors.KindApply, err, "replace file %s", rel)
		}
		e.emit(Operation{Type: OpReplaceFile, Path: rel})
	}
	return nil
}

// ReplaceDirectories swaps whole directory trees. Unlike file replacement
// this is not atomic: the old tree is removed before the new one is copied
// in, and the captured backup is the recovery path.
func (e *Executor) ReplaceDirectories(paths []string) error {
	if err := e.requireSource(); err != nil {
		return err
	}
	for _, rel := range paths {
		if err := e.replaceDirectory(rel); err != nil {
			return errors.NewUpgradeErrorf(errors.KindApply, err, "replace directory %s", rel)
		}
		e.emit(Operation{Type: OpReplaceDir, Path: rel})
	}
	return nil
}

// DeleteItems removes the listed files and directories. Deleting a path that
// does not exist is a no-op, so a retried patch does not fail halfway.
func (e *Executor) DeleteItems(files, dirs []string) error {
	for _, rel := range files {
		if err := e.deleteItem(rel, false); err != nil {
			return errors.NewUpgradeErrorf(errors.KindApply, err, "delete file %s", rel)
		}
		e.emit(Operation{Type: OpDeleteFile, Path: rel})
	}
	for _, rel := range dirs {
		if err := e.deleteItem(rel, true); err != nil {
			return errors.NewUpgradeErrorf(errors.KindApply, err, "delete directory %s", rel)
		}
		e.emit(Operation{Type: OpDeleteDir, Path: rel})
	}
	return nil
}

// Rollback restores every captured path to its pre-upgrade state, newest
// capture first. It keeps going after individual failures and reports them
// all together.
func (e *Executor) Rollback() error {
	if e.set == nil {
		return errors.NewUpgradeError(errors.KindRollback, ErrBackupDisabled, "cannot roll back")
	}

	var result *multierror.Error
	entries := e.set.All()
	for i := len(entries) - 1; i >= 0; i-- {
		if err := e.restore(entries[i]); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "restore %s", entries[i].Path))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return errors.NewUpgradeError(errors.KindRollback, err, "rollback incomplete")
	}
	return nil
}

// Close discards the backup root and its captured entries. After Close the
// executor can no longer roll back. Closing an executor without a backup is
// a no-op.
func (e *Executor) Close() error {
	if e.set == nil && e.backupDir == "" {
		return nil
	}
	e.set = nil
	dir := e.backupDir
	e.backupDir = ""
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "discard backup %s", dir)
	}
	return nil
}

func (e *Executor) replaceFile(rel string) error {
	if err := model.ValidateRelativePath(rel); err != nil {
		return err
	}
	src := filepath.Join(e.sourceDir, filepath.FromSlash(rel))
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, rel)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotAFile, rel)
	}
	if err := e.capture(rel); err != nil {
		return err
	}
	return fsutil.AtomicCopyFile(src, filepath.Join(e.installDir, filepath.FromSlash(rel)))
}

func (e *Executor) replaceDirectory(rel string) error {
	if err := model.ValidateRelativePath(rel); err != nil {
		return err
	}
	src := filepath.Join(e.sourceDir, filepath.FromSlash(rel))
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, rel)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, rel)
	}
	if err := e.capture(rel); err != nil {
		return err
	}

	dst := filepath.Join(e.installDir, filepath.FromSlash(rel))
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	return fsutil.CopyDir(src, dst)
}

func (e *Executor) deleteItem(rel string, wantDir bool) error {
	if err := model.ValidateRelativePath(rel); err != nil {
		return err
	}
	target := filepath.Join(e.installDir, filepath.FromSlash(rel))
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if wantDir != info.IsDir() {
		if wantDir {
			return fmt.Errorf("%w: %s", ErrNotADirectory, rel)
		}
		return fmt.Errorf("%w: %s", ErrNotAFile, rel)
	}
	if err := e.capture(rel); err != nil {
		return err
	}
	if wantDir {
		return os.RemoveAll(target)
	}
	return os.Remove(target)
}

// capture records the pre-mutation state of rel exactly once per executor.
// With backups disabled it does nothing.
func (e *Executor) capture(rel string) error {
	if e.set == nil || e.set.Has(rel) {
		return nil
	}

	target := filepath.Join(e.installDir, filepath.FromSlash(rel))
	entry := backupset.Entry{Path: rel}

	info, err := os.Stat(target)
	switch {
	case os.IsNotExist(err):
		entry.Kind = backupset.KindAbsent
	case err != nil:
		return errors.Wrapf(err, "failed to inspect %s before mutation", rel)
	case info.IsDir():
		entry.Kind = backupset.KindDir
		entry.BackupName = e.backupName(rel)
		if err := fsutil.CopyDir(target, e.backupPath(entry.BackupName)); err != nil {
			return errors.Wrapf(err, "failed to back up directory %s", rel)
		}
	default:
		entry.Kind = backupset.KindFile
		entry.BackupName = e.backupName(rel)
		backupPath := e.backupPath(entry.BackupName)
		if err := fsutil.Copy(target, backupPath); err != nil {
			return errors.Wrapf(err, "failed to back up file %s", rel)
		}
		if err := os.Chmod(backupPath, info.Mode().Perm()); err != nil {
			return errors.Wrapf(err, "failed to preserve mode of %s", rel)
		}
	}

	e.set.Add(entry)
	return e.saveSet()
}

func (e *Executor) restore(entry backupset.Entry) error {
	target := filepath.Join(e.installDir, filepath.FromSlash(entry.Path))
	switch entry.Kind {
	case backupset.KindAbsent:
		return os.RemoveAll(target)
	case backupset.KindFile:
		return fsutil.AtomicCopyFile(e.backupPath(entry.BackupName), target)
	case backupset.KindDir:
		if err := os.RemoveAll(target); err != nil {
			return err
		}
		return fsutil.CopyDir(e.backupPath(entry.BackupName), target)
	default:
		return fmt.Errorf("unknown backup entry kind %q", entry.Kind)
	}
}

func (e *Executor) requireSource() error {
	if e.sourceDir == "" {
		return errors.NewUpgradeError(errors.KindApply, ErrSourceNotSet, "replace operations need a source")
	}
	return nil
}

// backupName yields a unique location below the data dir. The index keeps
// names collision-free; the base name keeps the directory inspectable.
func (e *Executor) backupName(rel string) string {
	return fmt.Sprintf("%04d-%s", e.set.Len(), path.Base(rel))
}

func (e *Executor) backupPath(backupName string) string {
	return filepath.Join(e.backupDir, dataDirName, backupName)
}

func (e *Executor) saveSet() error {
	return e.set.Save(filepath.Join(e.backupDir, backupset.FileName))
}

func (e *Executor) emit(op Operation) {
	if e.notify != nil {
		e.notify(op)
	}
}
