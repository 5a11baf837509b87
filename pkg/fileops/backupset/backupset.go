// Package backupset provides a JSON-backed record of the pre-upgrade state
// of every path an upgrade touches.
package backupset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fsutil"
)

// FileName is the name of the backup set record inside a backup directory.
const FileName = "backupset.json"

// EntryKind describes what a path was before the upgrade touched it.
type EntryKind string

// Entry kinds.
const (
	KindFile   EntryKind = "file"
	KindDir    EntryKind = "dir"
	KindAbsent EntryKind = "absent"
)

// Errors.
var (
	ErrInvalidPath = fmt.Errorf("backup set path must be absolute")
	ErrNotFound    = fmt.Errorf("backup set not found")
)

// Entry records the pre-mutation state of one installation-root relative path.
// BackupName locates the captured copy below the backup directory; it is
// empty for paths that did not exist.
type Entry struct {
	Path       string    `json:"path"`
	Kind       EntryKind `json:"kind"`
	BackupName string    `json:"backup_name,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

// Set is the record of captured paths for one upgrade attempt. It is saved
// after every capture so a crash mid-apply still leaves a usable record.
type Set struct {
	FormatVersion string    `json:"format_version"`
	CreatedAt     time.Time `json:"created_at"`
	FromVersion   string    `json:"from_version,omitempty"`
	ToVersion     string    `json:"to_version,omitempty"`
	Entries       []Entry   `json:"entries"`
	rwMutex       sync.RWMutex
}

// New creates an empty backup set.
func New() *Set {
	return &Set{
		FormatVersion: "1",
		CreatedAt:     time.Now(),
		Entries:       []Entry{},
	}
}

// Load reads a backup set record from file. A missing file yields ErrNotFound
// so callers can tell "nothing to roll back" apart from a broken record.
func Load(path string) (*Set, error) {
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, cleanPath)
		}
		return nil, errors.Wrap(err, "failed to read backup set")
	}

	set := New()
	if err := json.Unmarshal(data, set); err != nil {
		return nil, errors.Wrap(err, "failed to parse backup set")
	}
	return set, nil
}

// Save writes the backup set record to file atomically.
func (s *Set) Save(path string) error {
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	s.rwMutex.RLock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.rwMutex.RUnlock()
	if err != nil {
		return errors.Wrap(err, "failed to marshal backup set")
	}

	if err := fsutil.AtomicWriteFile(cleanPath, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(err, "failed to write backup set")
	}
	return nil
}

// Add appends an entry. The caller checks Has first; capture happens at most
// once per path.
func (s *Set) Add(entry Entry) {
	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()

	if entry.CapturedAt.IsZero() {
		entry.CapturedAt = time.Now()
	}
	s.Entries = append(s.Entries, entry)
}

// Has reports whether the path was already captured.
func (s *Set) Has(path string) bool {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()

	for _, entry := range s.Entries {
		if entry.Path == path {
			return true
		}
	}
	return false
}

// Find returns the entry for path, or nil.
func (s *Set) Find(path string) *Entry {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()

	for i := range s.Entries {
		if s.Entries[i].Path == path {
			return &s.Entries[i]
		}
	}
	return nil
}

// All returns a copy of the entries in capture order.
func (s *Set) All() []Entry {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()

	entries := make([]Entry, len(s.Entries))
	copy(entries, s.Entries)
	return entries
}

// Len returns the number of captured paths.
func (s *Set) Len() int {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()
	return len(s.Entries)
}
