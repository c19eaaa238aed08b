package fetch

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// GCS downloads archives from gs://bucket/object URLs. The storage client
// is created on first use so that commands never touching GCS need no
// credentials.
type GCS struct {
	opts []option.ClientOption

	once      sync.Once
	client    *storage.Client
	clientErr error
}

// GCSOption configures the GCS fetcher
type GCSOption func(*GCS)

// WithoutAuthentication reads public buckets without credentials
func WithoutAuthentication() GCSOption {
	return func(f *GCS) {
		f.opts = append(f.opts, option.WithoutAuthentication())
	}
}

// WithEndpoint targets another storage endpoint, such as an emulator
func WithEndpoint(endpoint string) GCSOption {
	return func(f *GCS) {
		f.opts = append(f.opts, option.WithEndpoint(endpoint))
	}
}

// NewGCS creates a new GCS fetcher
func NewGCS(opts ...GCSOption) *GCS {
	f := &GCS{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch reads the object named by a gs:// URL
func (f *GCS) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	bucket, object, err := parseGCSURL(rawURL)
	if err != nil {
		return nil, err
	}

	client, err := f.storageClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, rawURL),
		)
	}

	reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return nil, goerr.Wrap(err, "archive object not found",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, rawURL),
		)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open archive object",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, rawURL),
		)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read archive object",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, rawURL),
		)
	}
	return data, nil
}

// Close releases the storage client if one was created
func (f *GCS) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}

func (f *GCS) storageClient(ctx context.Context) (*storage.Client, error) {
	f.once.Do(func() {
		f.client, f.clientErr = storage.NewClient(context.WithoutCancel(ctx), f.opts...)
	})
	return f.client, f.clientErr
}

func parseGCSURL(rawURL string) (bucket, object string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", goerr.Wrap(err, "invalid GCS URL",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, rawURL),
		)
	}

	bucket = u.Host
	object = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "gs" || bucket == "" || object == "" {
		return "", "", goerr.New("GCS URL must be gs://bucket/object",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, rawURL),
		)
	}
	return bucket, object, nil
}
