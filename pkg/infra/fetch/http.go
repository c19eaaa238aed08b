// Package fetch retrieves mod archives from http(s), Google Cloud Storage and
// local file URLs. Every failure is reported with the network error tag.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultTimeout  = 2 * time.Minute
	DefaultMaxBytes = 512 << 20
)

// HTTP downloads archives over http and https
type HTTP struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// HTTPOption configures the HTTP fetcher
type HTTPOption func(*HTTP)

// WithTimeout bounds a whole download including reading the body
func WithTimeout(d time.Duration) HTTPOption {
	return func(f *HTTP) {
		f.client.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) HTTPOption {
	return func(f *HTTP) {
		f.userAgent = ua
	}
}

// WithMaxBytes caps the accepted payload size
func WithMaxBytes(n int64) HTTPOption {
	return func(f *HTTP) {
		f.maxBytes = n
	}
}

// WithHTTPClient replaces the underlying client. Apply it before WithTimeout.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(f *HTTP) {
		f.client = client
	}
}

// NewHTTP creates a new HTTP fetcher
func NewHTTP(opts ...HTTPOption) *HTTP {
	f := &HTTP{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: types.AppName + "/" + types.Version,
		maxBytes:  DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the body behind url. Any status other than 200 is an error.
func (f *HTTP) Fetch(ctx context.Context, url string) ([]byte, error) {
	logger := ctxlog.From(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create download request",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, url),
		)
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download archive",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, url),
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, url),
			goerr.V(types.KeyStatus, resp.StatusCode),
		)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, url),
		)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, goerr.New("archive exceeds maximum size",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, url),
			goerr.V("max_bytes", f.maxBytes),
		)
	}

	logger.Debug("Downloaded archive",
		"url", url,
		"size_bytes", len(data),
		"duration", time.Since(start),
	)
	return data, nil
}
