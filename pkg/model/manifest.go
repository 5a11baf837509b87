// Package model provides the normalized release catalog structures shared by
// the decision engine and the patch pipeline.
package model

import (
	"time"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/platform"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
)

// FullPackage describes a complete service package for one architecture.
// Legacy catalog entries additionally carry a content hash and size.
type FullPackage struct {
	URL       string `json:"url"`
	Hash      string `json:"hash,omitempty"`
	Signature string `json:"signature"`
	Size      int64  `json:"size,omitempty"`
}

// Validate checks the fields every full package must carry.
func (p FullPackage) Validate() error {
	if p.URL == "" {
		return ErrPackageURLEmpty
	}
	if p.Signature == "" {
		return ErrSignatureMissing
	}
	return nil
}

// PatchPackage describes an incremental package that upgrades one build of a
// base version to a later build of the same base.
type PatchPackage struct {
	URL        string     `json:"url"`
	Hash       string     `json:"hash,omitempty"`
	Signature  string     `json:"signature,omitempty"`
	Operations Operations `json:"operations"`
	Notes      string     `json:"notes,omitempty"`
}

// Executable reports whether the patch carries everything needed to verify
// and apply it. Verification is mandatory, so a patch without a hash or a
// signature can never run and the decision engine falls back to the full
// package.
func (p PatchPackage) Executable() bool {
	return p.URL != "" && p.Hash != "" && p.Signature != "" && p.Operations.Count() > 0
}

// Operations declares the filesystem changes a patch performs, grouped by
// intent. All paths are relative to the installation root.
type Operations struct {
	Replace OperationSet `json:"replace"`
	Delete  OperationSet `json:"delete"`
}

// OperationSet lists the file and directory targets of one operation kind.
type OperationSet struct {
	Files       []string `json:"files,omitempty"`
	Directories []string `json:"directories,omitempty"`
}

// Count returns the total number of declared operations. It is the
// denominator for apply progress.
func (o Operations) Count() int {
	return len(o.Replace.Files) + len(o.Replace.Directories) +
		len(o.Delete.Files) + len(o.Delete.Directories)
}

// Validate checks every declared path for safety before any filesystem call.
func (o Operations) Validate() error {
	lists := []struct {
		name  string
		paths []string
	}{
		{"replace.files", o.Replace.Files},
		{"replace.directories", o.Replace.Directories},
		{"delete.files", o.Delete.Files},
		{"delete.directories", o.Delete.Directories},
	}
	for _, list := range lists {
		for i, p := range list.paths {
			if err := ValidateRelativePath(p); err != nil {
				return errors.Wrapf(err, "%s[%d]", list.name, i)
			}
		}
	}
	return nil
}

// ReleaseManifest is a catalog entry normalized for decision making: the
// legacy single-package form has been folded into the per-architecture full
// map and all versions and timestamps are parsed. It is read-only after
// normalization.
type ReleaseManifest struct {
	Version       version.Version
	ReleasedAt    time.Time
	Notes         string
	MinCLIVersion string
	Full          map[platform.Arch]FullPackage
	Patches       map[platform.Arch]PatchPackage
}

// FullFor returns the full package for the given architecture.
func (m *ReleaseManifest) FullFor(arch platform.Arch) (FullPackage, bool) {
	pkg, ok := m.Full[arch]
	return pkg, ok
}

// PatchFor returns the patch package for the given architecture, if the
// manifest ships an executable one.
func (m *ReleaseManifest) PatchFor(arch platform.Arch) (PatchPackage, bool) {
	pkg, ok := m.Patches[arch]
	if !ok || !pkg.Executable() {
		return PatchPackage{}, false
	}
	return pkg, true
}

// HasAnyPackage reports whether at least one installable package survived
// normalization.
func (m *ReleaseManifest) HasAnyPackage() bool {
	return len(m.Full) > 0 || len(m.Patches) > 0
}
