package fetch

import (
	"context"
	"net/url"
	"path/filepath"

	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/afero"
)

// File reads archives from file:// URLs, mainly for locally built mods
type File struct {
	fs afero.Fs
}

// NewFile creates a file fetcher reading from fsys
func NewFile(fsys afero.Fs) *File {
	return &File{fs: fsys}
}

func (f *File) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return nil, goerr.New("file URL must be file:///path",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, rawURL),
		)
	}

	data, err := afero.ReadFile(f.fs, filepath.FromSlash(u.Path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read local archive",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, rawURL),
			goerr.V(types.KeyPath, u.Path),
		)
	}
	return data, nil
}
