package workdir

import "fmt"

// Work area errors.
var (
	ErrRootInvalid = fmt.Errorf("work directory must be an absolute path")
	ErrNoBackups   = fmt.Errorf("no backup sets found")
)
