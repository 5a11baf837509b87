package patch

import "fmt"

// Patch pipeline errors.
var (
	ErrAlreadyExecuted     = fmt.Errorf("patch executor is one-shot and was already run")
	ErrNoOperations        = fmt.Errorf("patch declares no operations")
	ErrInstallDirMissing   = fmt.Errorf("installation directory does not exist")
	ErrSignatureRequired   = fmt.Errorf("package has no signature to verify")
	ErrSourceEntryMissing  = fmt.Errorf("declared operation target missing from the package")
	ErrSourceEntryKind     = fmt.Errorf("package entry kind does not match the declared operation")
	ErrRollbackUnavailable = fmt.Errorf("no backup from this attempt to roll back")
	ErrWorkDirInvalid      = fmt.Errorf("work directories must be absolute paths")
)
