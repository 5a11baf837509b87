// Package workdir manages the client's on-disk work area: downloaded
// packages, extracted attempt trees and backup sets.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fileops/backupset"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fsutil"
)

// Subdirectories of the work area root.
const (
	DownloadsDirName = "downloads"
	ExtractedDirName = "extracted"
	BackupsDirName   = "backups"
)

// Manager owns the work area layout below a single root directory.
type Manager struct {
	root string
}

// NewManager creates a manager for the work area rooted at root.
func NewManager(root string) (*Manager, error) {
	if root == "" || !filepath.IsAbs(root) {
		return nil, errors.Wrapf(ErrRootInvalid, "%q", root)
	}
	return &Manager{root: root}, nil
}

// NewDefaultManager roots the work area in the user cache directory.
func NewDefaultManager() (*Manager, error) {
	root, err := fsutil.GetCacheDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve the user cache directory")
	}
	return NewManager(root)
}

// Root returns the work area root directory.
func (m *Manager) Root() string { return m.root }

// Downloads returns the directory holding fetched release packages.
func (m *Manager) Downloads() string { return filepath.Join(m.root, DownloadsDirName) }

// Extracted returns the directory holding per-attempt extracted trees.
func (m *Manager) Extracted() string { return filepath.Join(m.root, ExtractedDirName) }

// Backups returns the directory holding backup sets.
func (m *Manager) Backups() string { return filepath.Join(m.root, BackupsDirName) }

// Ensure creates the work area layout. Backup directories hold copies of
// production files, so the whole area is private to the owner.
func (m *Manager) Ensure() error {
	for _, dir := range []string{m.root, m.Downloads(), m.Extracted(), m.Backups()} {
		if err := fsutil.EnsureDirPerm(dir, fsutil.DirModePrivate); err != nil {
			return errors.Wrapf(err, "failed to create work directory %s", dir)
		}
	}
	return nil
}

// NewBackupDir returns a fresh backup directory path for an attempt moving
// the installation to target. The directory itself is created when the
// attempt enables backups.
func (m *Manager) NewBackupDir(target string) string {
	stamp := time.Now().UTC().Format("20060102T150405Z")
	return filepath.Join(m.Backups(), stamp+"_"+target)
}

// LatestBackup returns the backup directory with the newest backup set.
// Directories without a readable set are skipped as stale leftovers.
func (m *Manager) LatestBackup() (string, error) {
	entries, err := os.ReadDir(m.Backups())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoBackups
		}
		return "", errors.Wrapf(err, "failed to read backup directory %s", m.Backups())
	}

	var (
		newest   string
		newestAt time.Time
	)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.Backups(), entry.Name())
		set, err := backupset.Load(filepath.Join(dir, backupset.FileName))
		if err != nil {
			continue
		}
		if newest == "" || set.CreatedAt.After(newestAt) {
			newest = dir
			newestAt = set.CreatedAt
		}
	}
	if newest == "" {
		return "", ErrNoBackups
	}
	return newest, nil
}

// CleanOptions specifies which parts of the work area to clear.
type CleanOptions struct {
	All       bool
	Downloads bool
	Extracted bool
	Backups   bool
}

// CleanResult reports the bytes freed per section.
type CleanResult struct {
	TotalFreed     int64
	DownloadsFreed int64
	ExtractedFreed int64
	BackupsFreed   int64
}

// Clean clears the selected sections and reports the bytes freed. Without
// explicit flags only the transient sections are cleared; backups are the
// rollback safety net and go only when asked for.
func (m *Manager) Clean(options CleanOptions) (*CleanResult, error) {
	if options.All {
		options.Downloads = true
		options.Extracted = true
		options.Backups = true
	} else if !options.Downloads && !options.Extracted && !options.Backups {
		options.Downloads = true
		options.Extracted = true
	}

	result := &CleanResult{}
	if options.Downloads {
		size, err := cleanDirectory(m.Downloads())
		if err != nil {
			return nil, errors.Wrap(err, "failed to clean downloads")
		}
		result.DownloadsFreed = size
		result.TotalFreed += size
	}
	if options.Extracted {
		size, err := cleanDirectory(m.Extracted())
		if err != nil {
			return nil, errors.Wrap(err, "failed to clean extracted trees")
		}
		result.ExtractedFreed = size
		result.TotalFreed += size
	}
	if options.Backups {
		size, err := cleanDirectory(m.Backups())
		if err != nil {
			return nil, errors.Wrap(err, "failed to clean backups")
		}
		result.BackupsFreed = size
		result.TotalFreed += size
	}
	return result, nil
}

// Usage describes the footprint of one work area section.
type Usage struct {
	Size  int64
	Files int
}

// Info describes the footprint of the whole work area.
type Info struct {
	Root      string
	Downloads Usage
	Extracted Usage
	Backups   Usage
	TotalSize int64
}

// Info reports the current footprint of the work area. Missing sections
// count as empty.
func (m *Manager) Info() (*Info, error) {
	info := &Info{Root: m.root}
	sections := []struct {
		dir   string
		usage *Usage
	}{
		{m.Downloads(), &info.Downloads},
		{m.Extracted(), &info.Extracted},
		{m.Backups(), &info.Backups},
	}
	for _, section := range sections {
		size, files, err := dirUsage(section.dir)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to inspect %s", section.dir)
		}
		section.usage.Size = size
		section.usage.Files = files
		info.TotalSize += size
	}
	return info, nil
}

// cleanDirectory removes a directory tree and recreates it empty, returning
// the bytes freed.
func cleanDirectory(dir string) (int64, error) {
	size, _, err := dirUsage(dir)
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(dir); err != nil {
		return 0, errors.Wrapf(err, "failed to remove directory %s", dir)
	}
	if err := fsutil.EnsureDirPerm(dir, fsutil.DirModePrivate); err != nil {
		return size, errors.Wrapf(err, "failed to recreate directory %s", dir)
	}
	return size, nil
}

// dirUsage sums file sizes and counts files below dir. An absent dir is
// empty, not an error.
func dirUsage(dir string) (size int64, count int, err error) {
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		return 0, 0, nil
	}
	err = filepath.Walk(dir, func(_ string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() {
			size += info.Size()
			count++
		}
		return nil
	})
	if err != nil {
		err = errors.Wrapf(err, "error walking directory %s", dir)
	}
	return size, count, err
}

// FormatBytes converts a byte count to a human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"K", "M", "G", "T", "P", "E"}
	return fmt.Sprintf("%.1f %sB", float64(bytes)/float64(div), units[exp])
}
