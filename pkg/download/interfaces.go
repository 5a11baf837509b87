//go:generate mockgen -destination=./mocks/download.go -package=mocks . Manager
package download

import (
	"context"
	"net/url"
)

// Manager defines the interface for downloading release packages. It replaces
// ad-hoc HTTP downloading with a testable API that reuses verified local
// files and resumes interrupted transfers.
type Manager interface {
	// Fetch downloads a single item to a deterministic location within
	// opts.Dir and returns the absolute local file path.
	Fetch(ctx context.Context, item Item, opts Options) (string, error)
}

// Item represents one remote package to download.
type Item struct {
	URL      *url.URL // source URL to download
	Checksum string   // optional hex-encoded SHA-256; when set, gates reuse of an existing file
	Filename string   // optional preferred filename; if empty, a name will be derived
}

// Options control the behavior of the download manager.
type Options struct {
	Dir      string      // destination directory. Must be absolute.
	Progress func(int64) // optional; receives the cumulative byte count, which never decreases
}
