package deployment

import "fmt"

// Deployment state errors.
var (
	ErrInstallDirInvalid = fmt.Errorf("install directory must be an absolute path")
	ErrNoVersionFile     = fmt.Errorf("no version file found in the installation")
)
