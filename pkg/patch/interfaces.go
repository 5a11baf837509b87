//go:generate mockgen -destination=./mocks/patch.go -package=mocks . Extractor
package patch

import "context"

// Extractor unpacks a package archive into a destination directory, rejecting
// archives with unsafe entry paths before writing anything.
type Extractor interface {
	ExtractAll(ctx context.Context, archivePath, destDir string) error
}
