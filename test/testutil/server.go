// Package testutil provides shared helpers for integration-style tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// FileServer serves the files of a temporary directory over HTTP. Tests add
// files and fetch them by name through URL().
type FileServer struct {
	Dir    string
	server *httptest.Server
}

// NewFileServer starts a file server over a fresh temporary directory. The
// server is shut down when the test finishes.
func NewFileServer(t *testing.T) *FileServer {
	t.Helper()

	dir := t.TempDir()
	server := httptest.NewServer(http.FileServer(http.Dir(dir)))
	t.Cleanup(server.Close)

	return &FileServer{Dir: dir, server: server}
}

// AddFile places content under name in the served directory.
func (s *FileServer) AddFile(t *testing.T, name string, content []byte) {
	t.Helper()
	path := filepath.Join(s.Dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

// URL returns the URL under which name is served.
func (s *FileServer) URL(name string) string {
	return s.server.URL + "/" + name
}

// BaseURL returns the server's root URL without a trailing slash.
func (s *FileServer) BaseURL() string {
	return s.server.URL
}
