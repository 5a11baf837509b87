package strategy

import "fmt"

// Decision errors.
var (
	ErrNilManifest      = fmt.Errorf("release manifest cannot be nil")
	ErrInvalidArch      = fmt.Errorf("architecture is not supported")
	ErrNoPackageForArch = fmt.Errorf("no full package available for this architecture")
	ErrCLITooOld        = fmt.Errorf("this client is too old for the release catalog")
)
