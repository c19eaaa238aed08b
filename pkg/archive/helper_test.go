package archive_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/m-mizutani/gt"
	"github.com/spf13/afero"
)

type entry struct {
	name    string
	content string
}

// buildZip writes entries in order; names ending with "/" become directories
func buildZip(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	for _, e := range entries {
		writer, err := zipWriter.Create(e.name)
		gt.NoError(t, err)
		if !strings.HasSuffix(e.name, "/") {
			_, err = writer.Write([]byte(e.content))
			gt.NoError(t, err)
		}
	}

	gt.NoError(t, zipWriter.Close())
	return buf.Bytes()
}

func buildTar(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tarWriter := tar.NewWriter(&buf)

	for _, e := range entries {
		header := &tar.Header{
			Name:     e.name,
			Mode:     0o644,
			Size:     int64(len(e.content)),
			Typeflag: tar.TypeReg,
			Format:   tar.FormatPAX,
		}
		if strings.HasSuffix(e.name, "/") {
			header.Typeflag = tar.TypeDir
			header.Mode = 0o755
			header.Size = 0
		}
		gt.NoError(t, tarWriter.WriteHeader(header))
		if header.Typeflag == tar.TypeReg {
			_, err := tarWriter.Write([]byte(e.content))
			gt.NoError(t, err)
		}
	}

	gt.NoError(t, tarWriter.Close())
	return buf.Bytes()
}

func buildTarGz(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)
	_, err := gzWriter.Write(buildTar(t, entries...))
	gt.NoError(t, err)
	gt.NoError(t, gzWriter.Close())
	return buf.Bytes()
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	gt.NoError(t, err)
	return string(data)
}

func exists(t *testing.T, fsys afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fsys, path)
	gt.NoError(t, err)
	return ok
}

// listFiles returns every path below root, relative to root, in slash form
func listFiles(t *testing.T, fsys afero.Fs, root string) []string {
	t.Helper()
	var paths []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	gt.NoError(t, err)
	return paths
}
