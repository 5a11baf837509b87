package version

import "fmt"

// Version parsing and validation errors.
var (
	ErrEmpty             = fmt.Errorf("version string cannot be empty")
	ErrSegmentCount      = fmt.Errorf("version must have 3 or 4 dot-separated segments")
	ErrSegmentNotNumeric = fmt.Errorf("version segment is not a non-negative integer")
	ErrSegmentRange      = fmt.Errorf("version segment out of range")
)
