package manifest

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/auth"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/model"
)

const defaultUserAgent = "nuwax/1.0"

// Source provides the latest release manifest for the configured channel.
type Source interface {
	Latest(ctx context.Context) (*model.ReleaseManifest, error)
}

// HTTPSource fetches release manifests over HTTP. It remembers the
// Last-Modified stamp of the previous fetch and makes conditional requests,
// serving the cached manifest on a 304 response.
type HTTPSource struct {
	client    *http.Client
	url       string
	userAgent string
	auth      auth.Authenticator

	mu           sync.Mutex
	lastModified time.Time
	cached       *model.ReleaseManifest
}

// NewHTTPSource creates a manifest source for the given URL. The auth token
// is optional; when set it is sent as a bearer token.
func NewHTTPSource(rawURL, authToken string, timeout time.Duration) (*HTTPSource, error) {
	var authenticator auth.Authenticator
	if authToken != "" {
		authenticator = auth.BearerAuth{Token: authToken}
	}
	return NewHTTPSourceWithAuth(rawURL, authenticator, timeout)
}

// NewHTTPSourceWithAuth creates a manifest source using the given
// authenticator for every request.
func NewHTTPSourceWithAuth(rawURL string, authenticator auth.Authenticator, timeout time.Duration) (*HTTPSource, error) {
	if rawURL == "" {
		return nil, ErrEmptyURL
	}
	if _, err := url.Parse(rawURL); err != nil {
		return nil, errors.Wrapf(err, "invalid manifest URL %s", rawURL)
	}
	return &HTTPSource{
		client:    &http.Client{Timeout: timeout},
		url:       rawURL,
		userAgent: defaultUserAgent,
		auth:      authenticator,
	}, nil
}

// Latest implements Source.
func (s *HTTPSource) Latest(ctx context.Context) (*model.ReleaseManifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create manifest request")
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")
	if s.auth != nil {
		if err := s.auth.Apply(req); err != nil {
			return nil, errors.Wrap(err, "applying manifest request credentials")
		}
	}
	if !s.lastModified.IsZero() && s.cached != nil {
		req.Header.Set("If-Modified-Since", s.lastModified.UTC().Format(http.TimeFormat))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.NewUpgradeError(errors.KindDownload, err, "fetching manifest")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && s.cached != nil:
		return s.cached, nil
	case resp.StatusCode == http.StatusOK:
	default:
		return nil, errors.NewUpgradeErrorf(errors.KindDownload, nil,
			"fetching manifest from %s: unexpected status code %d", s.url, resp.StatusCode)
	}

	manifest, err := DecodeReader(resp.Body)
	if err != nil {
		return nil, err
	}

	if stamp := resp.Header.Get("Last-Modified"); stamp != "" {
		if parsed, err := http.ParseTime(stamp); err == nil {
			s.lastModified = parsed
		}
	}
	s.cached = manifest
	return manifest, nil
}

// FileSource reads a release manifest from a local file. It serves
// air-gapped installations where the catalog is delivered out of band.
type FileSource struct {
	Path string
}

// Latest implements Source.
func (s FileSource) Latest(_ context.Context) (*model.ReleaseManifest, error) {
	return DecodeFile(s.Path)
}
