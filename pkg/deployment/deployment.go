// Package deployment inspects the locally deployed service: whether its
// descriptor is present and which version is recorded there.
package deployment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fsutil"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
)

const (
	// DefaultDescriptor is the file whose presence marks a deployment.
	DefaultDescriptor = "docker-compose.yml"
	// VersionFileName records the deployed service version inside the
	// installation directory.
	VersionFileName = ".nuwax-version"
)

// State reads and records deployment facts for one installation directory.
type State struct {
	installDir string
	descriptor string
}

// NewState creates a deployment state for installDir. An empty descriptor
// selects DefaultDescriptor.
func NewState(installDir, descriptor string) (*State, error) {
	if installDir == "" || !filepath.IsAbs(installDir) {
		return nil, fmt.Errorf("%w: %q", ErrInstallDirInvalid, installDir)
	}
	if descriptor == "" {
		descriptor = DefaultDescriptor
	}
	return &State{installDir: installDir, descriptor: descriptor}, nil
}

// InstallDir returns the installation directory the state inspects.
func (s *State) InstallDir() string {
	return s.installDir
}

// Exists reports whether the service descriptor is present, which is what
// distinguishes an installation from an empty target directory.
func (s *State) Exists() bool {
	info, err := os.Stat(filepath.Join(s.installDir, s.descriptor))
	return err == nil && !info.IsDir()
}

// CurrentVersion reads the recorded service version. A deployment without a
// version file yields ErrNoVersionFile; callers treat that like a missing
// deployment because no patch base can be established.
func (s *State) CurrentVersion() (version.Version, error) {
	data, err := os.ReadFile(s.versionPath())
	if err != nil {
		if os.IsNotExist(err) {
			return version.Version{}, fmt.Errorf("%w: %s", ErrNoVersionFile, s.versionPath())
		}
		return version.Version{}, errors.Wrap(err, "failed to read version file")
	}
	return version.Parse(strings.TrimSpace(string(data)))
}

// RecordVersion writes the deployed version marker. The write goes through a
// temp file and rename so a crash never leaves a truncated marker.
func (s *State) RecordVersion(v version.Version) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return fsutil.AtomicWriteFile(s.versionPath(), []byte(v.String()+"\n"), fsutil.FileModeDefault)
}

func (s *State) versionPath() string {
	return filepath.Join(s.installDir, VersionFileName)
}
