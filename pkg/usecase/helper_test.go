package usecase_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
)

// mockFetcher returns a canned payload and records requested URLs
type mockFetcher struct {
	data  []byte
	err   error
	calls []string
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.calls = append(m.calls, url)
	if m.err != nil {
		return nil, m.err
	}
	if m.data == nil {
		return nil, errors.New("mock not configured")
	}
	return m.data, nil
}

type staticRoot struct {
	path string
	err  error
}

func (s staticRoot) ConfigRoot() (string, error) {
	return s.path, s.err
}

type entry struct {
	name    string
	content string
}

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
