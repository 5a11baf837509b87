package patch

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nuwax-ai/nuwax-cli-sub003/internal/logger"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/download"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/integrity"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/model"
)

// Asset identifies one downloadable package file and its verification data.
type Asset struct {
	URL       string
	Hash      string
	Signature string
}

// AssetFromPatch extracts the downloadable part of a patch package.
func AssetFromPatch(p model.PatchPackage) Asset {
	return Asset{URL: p.URL, Hash: p.Hash, Signature: p.Signature}
}

// AssetFromFull extracts the downloadable part of a full package. Per-arch
// full descriptors carry no hash; only legacy ones do.
func AssetFromFull(f model.FullPackage) Asset {
	return Asset{URL: f.URL, Hash: f.Hash, Signature: f.Signature}
}

// Processor acquires and unpacks release packages: download with resume and
// reuse, mandatory cryptographic verification, and traversal-safe extraction
// into a fresh per-attempt directory.
type Processor struct {
	downloads   download.Manager
	verifier    integrity.Verifier
	extractor   Extractor
	downloadDir string
	extractRoot string
}

// NewProcessor creates a processor writing downloads and extracted trees
// below the two given directories.
func NewProcessor(downloads download.Manager, verifier integrity.Verifier, extractor Extractor, downloadDir, extractRoot string) (*Processor, error) {
	if !filepath.IsAbs(downloadDir) || !filepath.IsAbs(extractRoot) {
		return nil, errors.Wrapf(ErrWorkDirInvalid, "downloads %q, extracted %q", downloadDir, extractRoot)
	}
	return &Processor{
		downloads:   downloads,
		verifier:    verifier,
		extractor:   extractor,
		downloadDir: downloadDir,
		extractRoot: extractRoot,
	}, nil
}

// Download fetches the package into the downloads directory and returns the
// local path. progress receives the cumulative byte count and may be nil. A
// file from an earlier attempt whose hash still matches is reused without
// network contact.
func (p *Processor) Download(ctx context.Context, asset Asset, progress func(int64)) (string, error) {
	if asset.URL == "" {
		return "", errors.NewUpgradeError(errors.KindDownload, model.ErrPackageURLEmpty, "downloading package")
	}
	parsed, err := url.Parse(asset.URL)
	if err != nil {
		return "", errors.NewUpgradeErrorf(errors.KindDownload, err, "parsing package URL %s", asset.URL)
	}
	item := download.Item{URL: parsed, Checksum: asset.Hash}
	return p.downloads.Fetch(ctx, item, download.Options{Dir: p.downloadDir, Progress: progress})
}

// Verify checks the content hash and the publisher signature. The checks are
// independent and a package failing either is discarded, never retried. An
// empty hash skips the hash check (per-arch full packages ship without one);
// a missing signature is always an error.
func (p *Processor) Verify(path, hash, signature string) error {
	if signature == "" {
		return errors.NewUpgradeError(errors.KindIntegrity, ErrSignatureRequired, "verifying package")
	}
	if hash != "" {
		if err := p.verifier.VerifyChecksum(path, hash); err != nil {
			return err
		}
	}
	return p.verifier.VerifySignature(path, signature)
}

// Extract unpacks the archive into a fresh attempt directory below the
// extraction root and returns it. A rejected archive leaves no partial tree
// behind.
func (p *Processor) Extract(ctx context.Context, archivePath string) (string, error) {
	destDir := filepath.Join(p.extractRoot, uuid.NewString())
	if err := p.extractor.ExtractAll(ctx, archivePath, destDir); err != nil {
		if removeErr := os.RemoveAll(destDir); removeErr != nil {
			logger.Warnf("failed to clean up %s: %v", destDir, removeErr)
		}
		return "", err
	}
	return destDir, nil
}
