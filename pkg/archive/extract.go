package archive

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/balatro-mod-manager/bmm/pkg/domain/model"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/balatro-mod-manager/bmm/pkg/utils/safepath"
	"github.com/klauspost/compress/gzip"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/afero"
)

const (
	// ScratchDirName is the staging directory, inside the mods root, used to
	// strip the wrapping folder of nested zip archives
	ScratchDirName = "temp_extract"

	// macOSMetadataPrefix marks resource fork folders added by the macOS archiver
	macOSMetadataPrefix = "__MACOSX/"

	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Extractor unpacks archives into the mods root. All filesystem mutation goes
// through fs, so tests can run it against an in-memory filesystem.
type Extractor struct {
	fs afero.Fs
}

// NewExtractor creates an Extractor writing to fsys
func NewExtractor(fsys afero.Fs) *Extractor {
	return &Extractor{fs: fsys}
}

// Extract unpacks data, already classified as format, into modsRoot/modName
// and returns that directory. Every entry is checked against its extraction
// root before anything is written for it.
func (x *Extractor) Extract(ctx context.Context, format model.ArchiveFormat, data []byte, modsRoot, modName string) (string, error) {
	switch format {
	case model.ArchiveFormatZip:
		return x.extractZip(ctx, data, modsRoot, modName)

	case model.ArchiveFormatTar:
		return x.extractTar(ctx, bytes.NewReader(data), modsRoot, modName)

	case model.ArchiveFormatGzipTar:
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", goerr.Wrap(err, "failed to open gzip stream",
				goerr.T(types.ErrTagFileRead),
				goerr.V(types.KeyPath, modsRoot),
			)
		}
		defer gz.Close()
		return x.extractTar(ctx, gz, modsRoot, modName)
	}

	return "", goerr.New("no extraction strategy for archive format",
		goerr.T(types.ErrTagInvalidState),
		goerr.V(types.KeyDetail, format.String()),
	)
}

// isMetadata reports whether an entry only carries platform metadata
func isMetadata(name string) bool {
	return strings.HasPrefix(name, macOSMetadataPrefix)
}

// entryPath joins an archive entry name onto root, rejecting names that
// resolve outside of root
func entryPath(root, name string) (string, error) {
	dest := filepath.Join(root, filepath.FromSlash(name))
	if err := safepath.AssertWithin(root, dest); err != nil {
		return "", goerr.Wrap(err, "archive entry escapes extraction root",
			goerr.T(types.ErrTagPathTraversal),
			goerr.V(types.KeyEntry, name),
		)
	}
	return dest, nil
}

func (x *Extractor) mkdirAll(path string) error {
	if err := x.fs.MkdirAll(path, dirPerm); err != nil {
		return goerr.Wrap(err, "failed to create directory",
			goerr.T(types.ErrTagDirCreate),
			goerr.V(types.KeyPath, path),
		)
	}
	return nil
}

// writeFile creates the parent directories of path and replaces its content with r
func (x *Extractor) writeFile(path string, r io.Reader) error {
	if err := x.mkdirAll(filepath.Dir(path)); err != nil {
		return err
	}

	f, err := x.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return goerr.Wrap(err, "failed to create file",
			goerr.T(types.ErrTagFileWrite),
			goerr.V(types.KeyPath, path),
		)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "failed to write file content",
			goerr.T(types.ErrTagFileWrite),
			goerr.V(types.KeyPath, path),
		)
	}

	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close file",
			goerr.T(types.ErrTagFileWrite),
			goerr.V(types.KeyPath, path),
		)
	}
	return nil
}

// removeAll deletes path if it exists
func (x *Extractor) removeAll(path string, tag goerr.Option) error {
	exists, err := afero.Exists(x.fs, path)
	if err != nil {
		return goerr.Wrap(err, "failed to check path",
			goerr.T(types.ErrTagFileRead),
			goerr.V(types.KeyPath, path),
		)
	}
	if !exists {
		return nil
	}

	if err := x.fs.RemoveAll(path); err != nil {
		return goerr.Wrap(err, "failed to remove directory",
			tag,
			goerr.V(types.KeyPath, path),
		)
	}
	return nil
}
