package manifest

import "fmt"

// Manifest decoding and fetching errors.
var (
	ErrEmptyURL       = fmt.Errorf("manifest URL cannot be empty")
	ErrVersionMissing = fmt.Errorf("manifest version cannot be empty")
	ErrTimestamp      = fmt.Errorf("manifest released_at is not an RFC 3339 timestamp")
	ErrBadMinCLI      = fmt.Errorf("manifest min_cli_version is not a valid constraint")
	ErrPatchURLEmpty  = fmt.Errorf("patch package URL cannot be empty")
)
