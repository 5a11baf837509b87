package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure within an upgrade attempt. The classification
// drives recovery: recoverable failures may be retried without cleanup, while
// failures that happen after live files have been touched require a rollback.
type Kind int

const (
	KindUnknown Kind = iota
	// KindParse indicates malformed input such as a version string.
	KindParse
	// KindManifestValidation indicates a release manifest that violates its
	// invariants.
	KindManifestValidation
	// KindDownload indicates a network or disk failure while fetching a
	// package.
	KindDownload
	// KindIntegrity indicates a hash mismatch or an invalid signature.
	KindIntegrity
	// KindExtraction indicates a failure while unpacking a package archive,
	// including unsafe entry paths.
	KindExtraction
	// KindStructuralValidation indicates a patch whose declared operations do
	// not match the extracted package contents.
	KindStructuralValidation
	// KindHook indicates a failed pre-upgrade script.
	KindHook
	// KindApply indicates a failure while mutating the installation.
	KindApply
	// KindRollback indicates a failure while restoring backups.
	KindRollback
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown",
	KindParse:                "parse",
	KindManifestValidation:   "manifest validation",
	KindDownload:             "download",
	KindIntegrity:            "integrity",
	KindExtraction:           "extraction",
	KindStructuralValidation: "structural validation",
	KindHook:                 "hook",
	KindApply:                "apply",
	KindRollback:             "rollback",
}

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Recoverable reports whether a failure of this kind leaves the attempt
// retryable as-is. Only transient fetch failures qualify; integrity and
// validation failures mean the package itself is bad.
func (k Kind) Recoverable() bool {
	return k == KindDownload
}

// RequiresRollback reports whether a failure of this kind leaves the
// installation partially mutated. Everything before the apply stage fails
// without touching live files.
func (k Kind) RequiresRollback() bool {
	return k == KindApply
}

// UpgradeError is the tagged error shared by every stage of an upgrade
// attempt. The Kind carries the classification; Err holds the underlying
// cause when there is one.
type UpgradeError struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error implements the error interface for UpgradeError.
func (e *UpgradeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap returns the underlying error for UpgradeError.
func (e *UpgradeError) Unwrap() error {
	return e.Err
}

// NewUpgradeError creates an UpgradeError wrapping err. A nil err is allowed
// when the message alone describes the failure.
func NewUpgradeError(kind Kind, err error, msg string) error {
	return &UpgradeError{Kind: kind, Msg: msg, Err: err}
}

// NewUpgradeErrorf creates an UpgradeError with a formatted message.
func NewUpgradeErrorf(kind Kind, err error, format string, args ...interface{}) error {
	return &UpgradeError{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// ClassifyKind returns the kind recorded on err, or KindUnknown when err does
// not carry one.
func ClassifyKind(err error) Kind {
	var upgradeErr *UpgradeError
	if stderrors.As(err, &upgradeErr) {
		return upgradeErr.Kind
	}
	return KindUnknown
}

// IsRecoverable reports whether the attempt that produced err may be retried
// without cleanup.
func IsRecoverable(err error) bool {
	return ClassifyKind(err).Recoverable()
}

// NeedsRollback reports whether the failure behind err left the installation
// partially mutated.
func NeedsRollback(err error) bool {
	return ClassifyKind(err).RequiresRollback()
}
