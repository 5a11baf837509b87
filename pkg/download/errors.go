package download

import "fmt"

// Download errors.
var (
	ErrInvalidDownloadDir = fmt.Errorf("download directory must be absolute")
	ErrNilURL             = fmt.Errorf("download item has no URL")
	ErrUnexpectedStatus   = fmt.Errorf("unexpected HTTP status")
)

// errStaleRange signals that the server refused the requested byte range. The
// partial file is discarded and the transfer restarted from the beginning.
var errStaleRange = fmt.Errorf("stale partial download")
