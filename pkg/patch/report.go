package patch

import "fmt"

// ApplyReport is the error returned when the apply phase fails. It always
// states what became of the installation, so a caller never has to guess
// whether a half-applied patch was restored.
type ApplyReport struct {
	// ApplyErr is the failure that interrupted the apply phase.
	ApplyErr error
	// RolledBack reports whether the backup was restored successfully.
	RolledBack bool
	// RollbackErr is set when the rollback itself failed.
	RollbackErr error
}

// Error implements the error interface for ApplyReport.
func (r *ApplyReport) Error() string {
	switch {
	case r.RollbackErr != nil:
		return fmt.Sprintf("apply failed: %v; rollback also failed: %v", r.ApplyErr, r.RollbackErr)
	case r.RolledBack:
		return fmt.Sprintf("apply failed, installation rolled back: %v", r.ApplyErr)
	default:
		return fmt.Sprintf("apply failed with backup disabled, nothing was restored: %v", r.ApplyErr)
	}
}

// Unwrap exposes both underlying errors to errors.Is and errors.As. The apply
// cause comes first, so classification reports the original failure.
func (r *ApplyReport) Unwrap() []error {
	errs := []error{r.ApplyErr}
	if r.RollbackErr != nil {
		errs = append(errs, r.RollbackErr)
	}
	return errs
}
