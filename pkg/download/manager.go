package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/auth"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fsutil"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/integrity"
)

// partSuffix marks a transfer that has not completed yet. The file only moves
// to its final name once the whole body has been received and synced.
const partSuffix = ".part"

// ManagerImpl is an HTTP-based download manager. Transfers land in a partial
// file next to the final path, interrupted transfers are resumed with a range
// request on the next attempt, and files that already match their expected
// checksum are reused without touching the network.
type ManagerImpl struct {
	client    *http.Client
	userAgent string
	auth      auth.Authenticator
}

var _ Manager = (*ManagerImpl)(nil)

// NewManager creates a new download manager with the given timeout and user agent.
// The timeout bounds the whole transfer, so size it for package downloads, not
// for API calls.
func NewManager(timeout time.Duration, userAgent string) *ManagerImpl {
	return NewManagerWithAuth(timeout, userAgent, nil)
}

// NewManagerWithAuth creates a download manager that applies the given
// authenticator to every request. Package URLs can point at the same
// protected endpoint as the release catalog.
func NewManagerWithAuth(timeout time.Duration, userAgent string, authenticator auth.Authenticator) *ManagerImpl {
	if userAgent == "" {
		userAgent = "nuwax/1.0"
	}
	return &ManagerImpl{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		auth:      authenticator,
	}
}

// Fetch downloads a single item and returns the path to the downloaded file.
func (m *ManagerImpl) Fetch(ctx context.Context, item Item, opts Options) (string, error) {
	if opts.Dir == "" || !filepath.IsAbs(opts.Dir) {
		return "", errors.NewUpgradeErrorf(errors.KindDownload, ErrInvalidDownloadDir, "%q", opts.Dir)
	}
	if item.URL == nil {
		return "", errors.NewUpgradeError(errors.KindDownload, ErrNilURL, "cannot fetch item")
	}
	if err := os.MkdirAll(opts.Dir, fsutil.DirModeSecure); err != nil {
		return "", errors.NewUpgradeError(errors.KindDownload, err, "could not create download dir")
	}

	absPath := filepath.Join(opts.Dir, selectFilename(item))
	report := monotonic(opts.Progress)
	if reused, ok := tryReuseExisting(absPath, item.Checksum); ok {
		if st, err := os.Stat(reused); err == nil {
			report(st.Size())
		}
		return reused, nil
	}

	err := m.transfer(ctx, item, absPath, report)
	if stderrors.Is(err, errStaleRange) {
		err = m.transfer(ctx, item, absPath, report)
	}
	if err != nil {
		return "", err
	}
	return absPath, nil
}

// transfer performs one HTTP attempt, continuing from a partial file when one
// exists. It returns errStaleRange when the server can no longer satisfy the
// recorded offset so the caller restarts from scratch.
func (m *ManagerImpl) transfer(ctx context.Context, item Item, absPath string, report func(int64)) error {
	partPath := absPath + partSuffix
	var offset int64
	if st, err := os.Stat(partPath); err == nil {
		offset = st.Size()
	}

	resp, err := m.doRequest(ctx, item, offset)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	flags := os.O_CREATE | os.O_WRONLY
	switch resp.StatusCode {
	case http.StatusOK:
		// Full body, whatever partial content exists is stale.
		flags |= os.O_TRUNC
		offset = 0
	case http.StatusPartialContent:
		flags |= os.O_APPEND
	case http.StatusRequestedRangeNotSatisfiable:
		if err := os.Remove(partPath); err != nil && !os.IsNotExist(err) {
			return errors.NewUpgradeError(errors.KindDownload, err, "could not discard stale partial file")
		}
		return errStaleRange
	default:
		return errors.NewUpgradeErrorf(errors.KindDownload, ErrUnexpectedStatus, "%s returned %d", item.URL, resp.StatusCode)
	}

	if err := writeBody(partPath, flags, resp.Body, offset, report); err != nil {
		return err
	}
	return finalizeFile(partPath, absPath)
}

func (m *ManagerImpl) doRequest(ctx context.Context, item Item, offset int64) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL.String(), http.NoBody)
	if err != nil {
		return nil, errors.NewUpgradeError(errors.KindDownload, err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)
	if m.auth != nil {
		if err := m.auth.Apply(req); err != nil {
			return nil, errors.NewUpgradeError(errors.KindDownload, err, "applying request credentials")
		}
	}
	if offset > 0 {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(offset, 10)+"-")
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errors.NewUpgradeError(errors.KindDownload, err, "download failed")
	}
	return resp, nil
}

func writeBody(partPath string, flags int, body io.Reader, offset int64, report func(int64)) error {
	out, err := os.OpenFile(partPath, flags, fsutil.FileModeDefault)
	if err != nil {
		return errors.NewUpgradeError(errors.KindDownload, err, "could not open partial file")
	}
	src := &progressReader{r: body, received: offset, report: report}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return errors.NewUpgradeError(errors.KindDownload, err, "could not write file")
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return errors.NewUpgradeError(errors.KindDownload, err, "could not sync file")
	}
	if err := out.Close(); err != nil {
		return errors.NewUpgradeError(errors.KindDownload, err, "could not close file")
	}
	return nil
}

func finalizeFile(partPath, absPath string) error {
	if err := fsutil.Move(partPath, absPath); err != nil {
		return errors.NewUpgradeError(errors.KindDownload, err, "could not finalize file")
	}
	if err := os.Chmod(absPath, fsutil.FileModeDefault); err != nil {
		return errors.NewUpgradeError(errors.KindDownload, err, "could not set permissions")
	}
	return nil
}

func selectFilename(item Item) string {
	if item.Filename != "" {
		return item.Filename
	}
	if base := path.Base(item.URL.Path); base != "." && base != "/" && base != "" {
		return base
	}
	h := sha256.Sum256([]byte(item.URL.String()))
	return hex.EncodeToString(h[:])
}

// tryReuseExisting reports whether a previously downloaded file can be used
// instead of fetching again. Complete files are the only ones that ever carry
// the final name, so an existing file with no checksum to compare against is
// trusted as-is.
func tryReuseExisting(absPath, checksum string) (string, bool) {
	st, err := os.Stat(absPath)
	if err != nil || st.Size() == 0 {
		return "", false
	}
	if checksum == "" || integrity.Matches(absPath, checksum) {
		return absPath, true
	}
	return "", false
}

// progressReader counts bytes as they arrive. For resumed transfers the count
// starts at the size of the partial file so callers observe the true total.
type progressReader struct {
	r        io.Reader
	received int64
	report   func(int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.received += int64(n)
		p.report(p.received)
	}
	return n, err
}

// monotonic wraps a progress callback so reported byte counts never decrease,
// even when a stale partial transfer is discarded and restarted.
func monotonic(report func(int64)) func(int64) {
	var highest int64
	return func(n int64) {
		if report == nil || n <= highest {
			return
		}
		highest = n
		report(n)
	}
}
