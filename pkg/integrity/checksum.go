// Package integrity verifies the content hash and the publisher signature of
// downloaded packages before anything is unpacked.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
)

const checksumHexLength = sha256.Size * 2

// ChecksumFile returns the lowercase hex-encoded SHA-256 hash of the file at
// path.
func ChecksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "open for checksum")
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "hashing")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyChecksum compares the SHA-256 hash of the file at path against the
// expected value from the manifest. The expected value is matched
// case-insensitively and may carry a "sha256:" prefix; any other algorithm
// prefix is rejected.
func VerifyChecksum(path, expected string) error {
	want, err := normalizeChecksum(expected)
	if err != nil {
		return errors.NewUpgradeErrorf(errors.KindIntegrity, err, "verifying checksum of %s", filepath.Base(path))
	}
	got, err := ChecksumFile(path)
	if err != nil {
		return errors.NewUpgradeErrorf(errors.KindIntegrity, err, "verifying checksum of %s", filepath.Base(path))
	}
	if got != want {
		return errors.NewUpgradeErrorf(errors.KindIntegrity,
			fmt.Errorf("%w: want %s, got %s", ErrHashMismatch, want, got),
			"verifying checksum of %s", filepath.Base(path))
	}
	return nil
}

// Matches quietly reports whether the file at path has the expected checksum.
// It is used to decide whether a previous download can be reused.
func Matches(path, expected string) bool {
	want, err := normalizeChecksum(expected)
	if err != nil {
		return false
	}
	got, err := ChecksumFile(path)
	if err != nil {
		return false
	}
	return got == want
}

func normalizeChecksum(s string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if idx := strings.IndexByte(normalized, ':'); idx >= 0 {
		algo := normalized[:idx]
		if algo != "sha256" {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algo)
		}
		normalized = normalized[idx+1:]
	}
	if len(normalized) != checksumHexLength {
		return "", fmt.Errorf("%w: %q", ErrMalformedChecksum, s)
	}
	if _, err := hex.DecodeString(normalized); err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedChecksum, s)
	}
	return normalized, nil
}
