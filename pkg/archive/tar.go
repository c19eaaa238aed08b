package archive

import (
	"archive/tar"
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// extractTar streams entries straight into modsRoot/modName. The entry
// names are taken as the final layout; no wrapping folder is stripped.
func (x *Extractor) extractTar(ctx context.Context, r io.Reader, modsRoot, modName string) (string, error) {
	logger := ctxlog.From(ctx)

	target := filepath.Join(modsRoot, modName)
	if err := x.mkdirAll(target); err != nil {
		return "", err
	}

	tarReader := tar.NewReader(r)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !errors.Is(err, tar.ErrInsecurePath) {
			return "", goerr.Wrap(err, "failed to read tar entry",
				goerr.T(types.ErrTagFileRead),
				goerr.V(types.KeyPath, modsRoot),
			)
		}

		if isMetadata(header.Name) {
			continue
		}

		dest, err := entryPath(target, header.Name)
		if err != nil {
			return "", err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := x.mkdirAll(dest); err != nil {
				return "", err
			}
		case tar.TypeReg:
			if err := x.writeFile(dest, tarReader); err != nil {
				return "", err
			}
		default:
			// Links and device nodes are not part of a mod
			logger.Debug("Skipping tar entry",
				"name", header.Name,
				"type", string(header.Typeflag),
			)
		}
	}

	return target, nil
}
