// Package manifest decodes release catalog documents and normalizes them for
// the decision engine.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	goversion "github.com/hashicorp/go-version"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/model"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/platform"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/version"
)

// document is the raw wire form of a release manifest. The "package" field is
// the legacy single-package descriptor that predates per-architecture
// packages; normalization folds it into the packages map.
type document struct {
	Version       string                        `json:"version"`
	ReleasedAt    string                        `json:"released_at"`
	Notes         string                        `json:"notes,omitempty"`
	MinCLIVersion string                        `json:"min_cli_version,omitempty"`
	Legacy        *model.FullPackage            `json:"package,omitempty"`
	Full          map[string]model.FullPackage  `json:"packages,omitempty"`
	Patches       map[string]model.PatchPackage `json:"patches,omitempty"`
}

// Decode parses and normalizes a release manifest document. The returned
// manifest is validated: versions and timestamps parse, every package carries
// its required fields and all operation paths are safe.
func Decode(data []byte) (*model.ReleaseManifest, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewUpgradeError(errors.KindManifestValidation, err, "decoding manifest")
	}
	return normalize(&doc)
}

// DecodeReader parses and normalizes a release manifest from an io.Reader.
func DecodeReader(reader io.Reader) (*model.ReleaseManifest, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewUpgradeError(errors.KindDownload, err, "reading manifest data")
	}
	return Decode(data)
}

// DecodeFile parses and normalizes a release manifest from a local file.
func DecodeFile(path string) (*model.ReleaseManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewUpgradeErrorf(errors.KindDownload, err, "reading manifest file %s", path)
	}
	return Decode(data)
}

func normalize(doc *document) (*model.ReleaseManifest, error) {
	if doc.Version == "" {
		return nil, errors.NewUpgradeError(errors.KindManifestValidation, ErrVersionMissing, "validating manifest")
	}
	ver, err := version.Parse(doc.Version)
	if err != nil {
		return nil, errors.NewUpgradeErrorf(errors.KindManifestValidation, err, "validating manifest version %q", doc.Version)
	}

	releasedAt, err := time.Parse(time.RFC3339, doc.ReleasedAt)
	if err != nil {
		return nil, errors.NewUpgradeError(errors.KindManifestValidation,
			fmt.Errorf("%w: %q", ErrTimestamp, doc.ReleasedAt), "validating manifest")
	}

	if doc.MinCLIVersion != "" {
		if _, err := goversion.NewConstraint(doc.MinCLIVersion); err != nil {
			return nil, errors.NewUpgradeError(errors.KindManifestValidation,
				fmt.Errorf("%w: %q", ErrBadMinCLI, doc.MinCLIVersion), "validating manifest")
		}
	}

	manifest := &model.ReleaseManifest{
		Version:       ver,
		ReleasedAt:    releasedAt,
		Notes:         doc.Notes,
		MinCLIVersion: doc.MinCLIVersion,
		Full:          make(map[platform.Arch]model.FullPackage),
		Patches:       make(map[platform.Arch]model.PatchPackage),
	}

	for key, pkg := range doc.Full {
		arch, err := platform.Normalize(key)
		if err != nil {
			// Unknown architectures are skipped so newer catalogs keep
			// working with older clients.
			continue
		}
		if err := pkg.Validate(); err != nil {
			return nil, errors.NewUpgradeErrorf(errors.KindManifestValidation, err, "validating packages[%s]", key)
		}
		manifest.Full[arch] = pkg
	}

	if doc.Legacy != nil {
		if err := doc.Legacy.Validate(); err != nil {
			return nil, errors.NewUpgradeError(errors.KindManifestValidation, err, "validating legacy package")
		}
		for _, arch := range platform.Valid() {
			if _, ok := manifest.Full[arch]; !ok {
				manifest.Full[arch] = *doc.Legacy
			}
		}
	}

	for key, patch := range doc.Patches {
		arch, err := platform.Normalize(key)
		if err != nil {
			continue
		}
		if patch.URL == "" {
			return nil, errors.NewUpgradeErrorf(errors.KindManifestValidation, ErrPatchURLEmpty, "validating patches[%s]", key)
		}
		if err := patch.Operations.Validate(); err != nil {
			return nil, errors.NewUpgradeErrorf(errors.KindManifestValidation, err, "validating patches[%s]", key)
		}
		manifest.Patches[arch] = patch
	}

	if !manifest.HasAnyPackage() {
		return nil, errors.NewUpgradeError(errors.KindManifestValidation, model.ErrNoPackages, "validating manifest")
	}
	return manifest, nil
}
