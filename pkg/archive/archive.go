// Package archive creates and unpacks the gzip tarballs that release
// packages ship as.
package archive

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/mholt/archives"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fsutil"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/model"
)

// packageFormat is the only format release packages ship in.
func packageFormat() archives.CompressedArchive {
	return archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
		Extraction:  archives.Tar{},
	}
}

// Manager handles package archive extraction and creation.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// ExtractAll unpacks the archive into destDir. Every entry name is checked
// before anything is written: one unsafe entry rejects the whole archive and
// leaves destDir untouched.
func (am *Manager) ExtractAll(ctx context.Context, archivePath, destDir string) error {
	if err := am.scan(ctx, archivePath); err != nil {
		return errors.NewUpgradeError(errors.KindExtraction, err, "archive rejected")
	}

	if err := os.MkdirAll(destDir, fsutil.DirModeDefault); err != nil {
		return errors.NewUpgradeError(errors.KindExtraction, err, "failed to create destination directory")
	}

	err := am.walk(ctx, archivePath, func(_ context.Context, entry archives.FileInfo) error {
		return am.extractEntry(entry, destDir)
	})
	if err != nil {
		return errors.NewUpgradeError(errors.KindExtraction, err, "failed to extract archive")
	}
	return nil
}

// Create creates an archive from the specified source directory.
func (am *Manager) Create(ctx context.Context, sourceDir, archivePath string) error {
	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return errors.Wrap(err, "failed to get absolute path for source directory")
	}

	archiveFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath + string(os.PathSeparator): "",
	})
	if err != nil {
		return errors.Wrap(err, "failed to read files from disk")
	}

	file, err := os.Create(archivePath)
	if err != nil {
		return errors.Wrapf(err, "failed to create output file %s", archivePath)
	}
	defer func() {
		_ = file.Sync()
		_ = file.Close()
	}()

	if err := packageFormat().Archive(ctx, file, archiveFiles); err != nil {
		return errors.Wrap(err, "failed to create archive")
	}
	return nil
}

// scan walks the archive without writing anything and validates every entry
// name and symlink target.
func (am *Manager) scan(ctx context.Context, archivePath string) error {
	return am.walk(ctx, archivePath, func(_ context.Context, entry archives.FileInfo) error {
		if path.Clean(entry.NameInArchive) == "." {
			return nil
		}
		if err := model.ValidateRelativePath(entry.NameInArchive); err != nil {
			return errors.Wrapf(err, "unsafe archive entry %q", entry.NameInArchive)
		}
		if entry.LinkTarget != "" {
			if err := validateLinkTarget(entry.NameInArchive, entry.LinkTarget); err != nil {
				return errors.Wrapf(err, "unsafe link target in %q", entry.NameInArchive)
			}
		}
		return nil
	})
}

// walk streams the archive entries through handle.
func (am *Manager) walk(ctx context.Context, archivePath string, handle archives.FileHandler) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "failed to open archive file")
	}
	defer func() { _ = file.Close() }()

	return packageFormat().Extract(ctx, file, handle)
}

// extractEntry writes a single archive entry below destDir.
func (am *Manager) extractEntry(entry archives.FileInfo, destDir string) error {
	name := path.Clean(entry.NameInArchive)
	if name == "." {
		return nil
	}
	targetPath := filepath.Join(destDir, filepath.FromSlash(name))

	if entry.IsDir() {
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	}
	if entry.LinkTarget != "" {
		return am.writeSymlink(entry, targetPath)
	}
	return am.writeRegularFile(entry, targetPath)
}

// writeSymlink creates a symlink at targetPath pointing at the entry's target.
func (am *Manager) writeSymlink(entry archives.FileInfo, targetPath string) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(err, "failed to create parent directory for symlink %s", entry.NameInArchive)
	}

	// Replace whatever an earlier extraction left behind.
	_ = os.Remove(targetPath)

	return os.Symlink(entry.LinkTarget, targetPath)
}

// writeRegularFile writes a regular file entry to targetPath and preserves metadata.
func (am *Manager) writeRegularFile(entry archives.FileInfo, targetPath string) error {
	srcFile, err := entry.Open()
	if err != nil {
		return errors.Wrapf(err, "failed to open source file %s", entry.NameInArchive)
	}
	defer func() { _ = srcFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(err, "failed to create parent directory for %s", entry.NameInArchive)
	}

	perm := entry.Mode().Perm()
	if perm == 0 {
		perm = fsutil.FileModeDefault
	}
	dstFile, err := fsutil.CreateFilePerm(targetPath, perm)
	if err != nil {
		return errors.Wrapf(err, "failed to create destination file %s", targetPath)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return errors.Wrapf(err, "failed to copy file %s", entry.NameInArchive)
	}

	if err := os.Chmod(targetPath, perm); err != nil {
		return errors.Wrapf(err, "failed to set permissions for %s", targetPath)
	}
	if !entry.ModTime().IsZero() {
		if err := os.Chtimes(targetPath, entry.ModTime(), entry.ModTime()); err != nil {
			return errors.Wrapf(err, "failed to set modification time for %s", targetPath)
		}
	}
	return nil
}

// validateLinkTarget rejects absolute symlink targets and targets that
// resolve outside the extraction root.
func validateLinkTarget(name, target string) error {
	if path.IsAbs(target) {
		return model.ErrPathAbsolute
	}
	resolved := path.Join(path.Dir(path.Clean(name)), target)
	return model.ValidateRelativePath(resolved)
}
