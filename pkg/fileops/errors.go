package fileops

import "fmt"

// File operation errors.
var (
	ErrInstallDirInvalid    = fmt.Errorf("installation directory must be absolute")
	ErrBackupDirInvalid     = fmt.Errorf("backup directory must be absolute")
	ErrBackupDisabled       = fmt.Errorf("backup was never enabled")
	ErrBackupAlreadyEnabled = fmt.Errorf("backup already enabled")
	ErrSourceNotSet         = fmt.Errorf("source directory not set")
	ErrSourceMissing        = fmt.Errorf("entry missing from source tree")
	ErrNotAFile             = fmt.Errorf("path is not a regular file")
	ErrNotADirectory        = fmt.Errorf("path is not a directory")
)
