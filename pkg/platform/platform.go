// Package platform maps the architecture of the running binary to the fixed
// identifiers release manifests key their packages by.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Arch identifies a CPU architecture using its manifest identifier.
type Arch string

const (
	// ArchX8664 represents the x86_64 (AMD64) architecture.
	ArchX8664 Arch = "x86_64"
	// ArchAArch64 represents the aarch64 (ARM64) architecture.
	ArchAArch64 Arch = "aarch64"
)

// ErrUnsupportedArch is returned for architectures outside the supported set.
var ErrUnsupportedArch = fmt.Errorf("unsupported architecture")

// Valid returns the supported architecture identifiers.
func Valid() []Arch {
	return []Arch{ArchX8664, ArchAArch64}
}

// String returns the manifest identifier of the architecture.
func (a Arch) String() string {
	return string(a)
}

// IsValid reports whether a is one of the supported identifiers.
func (a Arch) IsValid() bool {
	return a == ArchX8664 || a == ArchAArch64
}

// Detect returns the architecture of the running binary mapped to its
// manifest identifier.
func Detect() (Arch, error) {
	return Normalize(runtime.GOARCH)
}

// Normalize maps common spellings of the supported architectures to their
// manifest identifiers.
func Normalize(name string) (Arch, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "amd64", "x86_64", "x64":
		return ArchX8664, nil
	case "arm64", "aarch64":
		return ArchAArch64, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedArch, name)
	}
}
