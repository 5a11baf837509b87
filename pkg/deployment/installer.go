package deployment

import (
	"context"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
)

// Extractor unpacks a package archive into a directory.
type Extractor interface {
	ExtractAll(ctx context.Context, archivePath, destDir string) error
}

// FullInstaller lays a verified full package down over the installation
// directory. It only places files; stopping and starting the service around
// the swap stays with the operator or an outer lifecycle manager.
type FullInstaller struct {
	State     *State
	Extractor Extractor
}

// Deploy unpacks the package into the installation directory. Files already
// present keep their content unless the package ships a replacement.
func (i *FullInstaller) Deploy(ctx context.Context, packagePath string, _ version.Version) error {
	if err := i.Extractor.ExtractAll(ctx, packagePath, i.State.InstallDir()); err != nil {
		return errors.Wrap(err, "deploying full package")
	}
	return nil
}
