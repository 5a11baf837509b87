// Package version implements the four-segment release numbering scheme used
// by the service catalog. The first three segments form the base version of a
// full release; the fourth counts patch builds on top of that base.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
)

// Upper bounds for the individual segments.
const (
	MaxMajor = 999
	MaxMinor = 999
	MaxPatch = 999
	MaxBuild = 9999
)

const (
	segmentsBase = 3
	segmentsFull = 4
)

// Version is an immutable release number. The zero value is 0.0.0.
type Version struct {
	major int
	minor int
	patch int
	build int
}

// Comparison is the result of relating an installed version to a candidate.
type Comparison int

const (
	// Equal means both versions are identical.
	Equal Comparison = iota
	// Newer means the installed version is ahead of the candidate.
	Newer
	// PatchUpgradeable means the candidate shares the base version and only
	// advances the build counter, so a patch can bridge the gap.
	PatchUpgradeable
	// FullUpgradeRequired means the candidate has a higher base version and
	// only a full package can bridge the gap.
	FullUpgradeRequired
)

// String returns the human-readable name of the comparison result.
func (c Comparison) String() string {
	switch c {
	case Equal:
		return "equal"
	case Newer:
		return "newer"
	case PatchUpgradeable:
		return "patch-upgradeable"
	case FullUpgradeRequired:
		return "full-upgrade-required"
	default:
		return "unknown"
	}
}

// New creates a Version from its four segments, validating their ranges.
func New(major, minor, patch, build int) (Version, error) {
	v := Version{major: major, minor: minor, patch: patch, build: build}
	if err := v.Validate(); err != nil {
		return Version{}, err
	}
	return v, nil
}

// Parse converts a version string into a Version. It accepts an optional
// leading "v" or "V" and either three or four dot-separated segments; a
// three-segment string gets a build counter of zero. Anything else is
// rejected, there is no silent truncation.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, errors.NewUpgradeError(errors.KindParse, ErrEmpty, "parsing version")
	}

	rest := s
	if rest[0] == 'v' || rest[0] == 'V' {
		rest = rest[1:]
	}

	parts := strings.Split(rest, ".")
	if len(parts) != segmentsBase && len(parts) != segmentsFull {
		return Version{}, errors.NewUpgradeErrorf(errors.KindParse, ErrSegmentCount, "parsing %q", s)
	}

	segments := [segmentsFull]int{}
	for i, part := range parts {
		n, err := parseSegment(part)
		if err != nil {
			return Version{}, errors.NewUpgradeErrorf(errors.KindParse, err, "parsing %q", s)
		}
		segments[i] = n
	}

	v := Version{major: segments[0], minor: segments[1], patch: segments[2], build: segments[3]}
	if err := v.Validate(); err != nil {
		return Version{}, errors.NewUpgradeErrorf(errors.KindParse, err, "parsing %q", s)
	}
	return v, nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and compile-time constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseSegment(s string) (int, error) {
	if s == "" {
		return 0, ErrSegmentNotNumeric
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrSegmentNotNumeric, s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrSegmentRange, s)
	}
	return n, nil
}

// Validate checks that every segment is within its allowed range.
func (v Version) Validate() error {
	checks := []struct {
		name  string
		value int
		max   int
	}{
		{"major", v.major, MaxMajor},
		{"minor", v.minor, MaxMinor},
		{"patch", v.patch, MaxPatch},
		{"build", v.build, MaxBuild},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > c.max {
			return fmt.Errorf("%w: %s segment %d not in [0, %d]", ErrSegmentRange, c.name, c.value, c.max)
		}
	}
	return nil
}

// Major returns the major segment.
func (v Version) Major() int { return v.major }

// Minor returns the minor segment.
func (v Version) Minor() int { return v.minor }

// Patch returns the patch segment.
func (v Version) Patch() int { return v.patch }

// Build returns the build counter.
func (v Version) Build() int { return v.build }

// Base returns the version with the build counter dropped.
func (v Version) Base() Version {
	return Version{major: v.major, minor: v.minor, patch: v.patch}
}

// String formats the version with three segments when the build counter is
// zero and four otherwise, so formatting round-trips through Parse.
func (v Version) String() string {
	if v.build == 0 {
		return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
	}
	return fmt.Sprintf("%d.%d.%d.%d", v.major, v.minor, v.patch, v.build)
}

// Compare orders v against other lexicographically over
// (major, minor, patch, build). It returns -1, 0 or 1.
func (v Version) Compare(other Version) int {
	pairs := [][2]int{
		{v.major, other.major},
		{v.minor, other.minor},
		{v.patch, other.patch},
		{v.build, other.build},
	}
	for _, p := range pairs {
		switch {
		case p[0] < p[1]:
			return -1
		case p[0] > p[1]:
			return 1
		}
	}
	return 0
}

// CompareDetailed relates the installed version v to a candidate and reports
// which kind of upgrade, if any, would bridge the gap.
func (v Version) CompareDetailed(candidate Version) Comparison {
	if v == candidate {
		return Equal
	}
	if v.Base() == candidate.Base() {
		if v.build < candidate.build {
			return PatchUpgradeable
		}
		return Newer
	}
	if v.Base().Compare(candidate.Base()) < 0 {
		return FullUpgradeRequired
	}
	return Newer
}

// CanApplyPatch reports whether a patch built for candidate's base version
// applies to v, which requires both to share the same base.
func (v Version) CanApplyPatch(candidate Version) bool {
	return v.Base() == candidate.Base()
}

// IsCompatibleWithPatch reports whether upgrading v to candidate is a pure
// patch step: same base version and a strictly higher build counter.
func (v Version) IsCompatibleWithPatch(candidate Version) bool {
	return v.Base() == candidate.Base() && candidate.build > v.build
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
