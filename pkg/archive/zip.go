package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/balatro-mod-manager/bmm/pkg/utils/safepath"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// extractZip picks the flat or nested layout depending on whether the archive
// has any entry at its top level
func (x *Extractor) extractZip(ctx context.Context, data []byte, modsRoot, modName string) (string, error) {
	logger := ctxlog.From(ctx)

	// Insecure names are reported here but judged per entry by entryPath
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return "", goerr.Wrap(err, "invalid zip archive",
			goerr.T(types.ErrTagFileRead),
			goerr.V(types.KeyPath, modsRoot),
		)
	}

	target := filepath.Join(modsRoot, modName)
	if err := x.removeAll(target, goerr.T(types.ErrTagFileWrite)); err != nil {
		return "", err
	}

	if hasRootFiles(zipReader.File) {
		logger.Debug("Extracting zip with root level files",
			"target", target,
			"entries", len(zipReader.File),
		)

		if err := x.mkdirAll(target); err != nil {
			return "", err
		}
		if err := x.extractZipEntries(zipReader.File, target); err != nil {
			return "", err
		}
		return target, nil
	}

	return x.extractNestedZip(ctx, zipReader.File, modsRoot, target)
}

// extractNestedZip unpacks into the scratch directory and moves the wrapping
// folder into place as target
func (x *Extractor) extractNestedZip(ctx context.Context, files []*zip.File, modsRoot, target string) (string, error) {
	logger := ctxlog.From(ctx)

	rootDir, err := zipRootDir(files)
	if err != nil {
		return "", err
	}

	if roots := topLevelDirs(files); len(roots) > 1 {
		logger.Warn("Zip has several top level folders, only the first one is installed",
			"installed", rootDir,
			"folders", roots,
		)
	}

	scratch := filepath.Join(modsRoot, ScratchDirName)
	if err := x.removeAll(scratch, goerr.T(types.ErrTagDirCreate)); err != nil {
		return "", err
	}
	if err := x.mkdirAll(scratch); err != nil {
		return "", err
	}

	logger.Debug("Extracting nested zip",
		"scratch", scratch,
		"root_dir", rootDir,
		"target", target,
	)

	if err := x.extractZipEntries(files, scratch); err != nil {
		return "", err
	}

	source := filepath.Join(scratch, rootDir)
	if err := safepath.AssertDescendant(scratch, source); err != nil {
		return "", goerr.Wrap(err, "zip root folder is not below the scratch directory",
			goerr.V(types.KeyEntry, rootDir),
		)
	}

	if err := x.fs.Rename(source, target); err != nil {
		return "", goerr.Wrap(err, "failed to move extracted folder into place",
			goerr.T(types.ErrTagFileWrite),
			goerr.V(types.KeyPath, source),
			goerr.V("target", target),
		)
	}

	if err := x.removeAll(scratch, goerr.T(types.ErrTagFileWrite)); err != nil {
		return "", err
	}

	return target, nil
}

func (x *Extractor) extractZipEntries(files []*zip.File, root string) error {
	for _, file := range files {
		if isMetadata(file.Name) {
			continue
		}

		dest, err := entryPath(root, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := x.mkdirAll(dest); err != nil {
				return err
			}
			continue
		}

		if err := x.extractZipFile(file, dest); err != nil {
			return err
		}
	}
	return nil
}

func (x *Extractor) extractZipFile(file *zip.File, dest string) error {
	rc, err := file.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open zip entry",
			goerr.T(types.ErrTagFileRead),
			goerr.V(types.KeyPath, dest),
			goerr.V(types.KeyEntry, file.Name),
		)
	}
	defer rc.Close()

	return x.writeFile(dest, rc)
}

// hasRootFiles reports whether any entry sits at the archive top level
func hasRootFiles(files []*zip.File) bool {
	for _, file := range files {
		if !strings.Contains(file.Name, "/") {
			return true
		}
	}
	return false
}

// zipRootDir returns the first path segment of the first content entry.
// Leading slashes are ignored, as entryPath does when writing.
func zipRootDir(files []*zip.File) (string, error) {
	for _, file := range files {
		if isMetadata(file.Name) {
			continue
		}
		if root := firstSegment(file.Name); root != "" {
			return root, nil
		}
	}

	return "", goerr.New("empty zip archive",
		goerr.T(types.ErrTagInvalidState),
		goerr.V(types.KeyDetail, "no entry to read the root folder from"),
	)
}

func firstSegment(name string) string {
	root, _, _ := strings.Cut(strings.TrimLeft(name, "/"), "/")
	return root
}

func topLevelDirs(files []*zip.File) []string {
	var roots []string
	seen := make(map[string]struct{})
	for _, file := range files {
		if isMetadata(file.Name) {
			continue
		}
		root := firstSegment(file.Name)
		if _, ok := seen[root]; ok || root == "" {
			continue
		}
		seen[root] = struct{}{}
		roots = append(roots, root)
	}
	return roots
}
