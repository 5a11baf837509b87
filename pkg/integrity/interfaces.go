//go:generate mockgen -destination=./mocks/integrity.go -package=mocks . Verifier
package integrity

// Verifier checks downloaded packages against the manifest's integrity
// fields. The two checks are independent; both must pass before a package is
// unpacked, and neither failure is retried.
type Verifier interface {
	// VerifyChecksum compares the SHA-256 hash of the file at path against
	// the expected value, which may carry an optional algorithm prefix such
	// as "sha256:" and is compared case-insensitively.
	VerifyChecksum(path, expected string) error
	// VerifySignature checks the detached base64-encoded signature of the
	// file at path against the trusted public key.
	VerifySignature(path, signature string) error
}
