package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/test/testutil"
)

func TestFetchFile_Success(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 3*progressThreshold)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "nested", "payload.bin")

	var reports []int64
	var lastTotal int64
	manager := NewManager(time.Minute, "cellar-test/1.0")
	written, err := manager.FetchFile(context.Background(), server.URL, dest, func(written, total int64) {
		reports = append(reports, written)
		lastTotal = total
	})
	require.NoError(t, err)
	assert.EqualValues(t, len(payload), written)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// The final report carries the full byte count; intermediate reports are
	// throttled so there are far fewer of them than write calls.
	require.NotEmpty(t, reports)
	assert.EqualValues(t, len(payload), reports[len(reports)-1])
	assert.EqualValues(t, len(payload), lastTotal)
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i], reports[i-1])
	}
}

func TestFetchFile_FromFileServer(t *testing.T) {
	server := testutil.NewFileServer(t)
	server.AddFile(t, "packages/pkg1.bin", []byte("package payload"))

	dest := filepath.Join(t.TempDir(), "pkg1.bin")
	manager := NewManager(time.Minute, "")
	written, err := manager.FetchFile(context.Background(), server.URL("packages/pkg1.bin"), dest, nil)
	require.NoError(t, err)
	assert.EqualValues(t, len("package payload"), written)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "package payload", string(got))
}

func TestFetchFile_RejectsRelativeDestination(t *testing.T) {
	manager := NewManager(time.Minute, "")
	_, err := manager.FetchFile(context.Background(), "http://unused", "relative/path.bin", nil)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidPath)
}

func TestFetchFile_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	manager := NewManager(time.Minute, "")
	_, err := manager.FetchFile(context.Background(), server.URL, filepath.Join(t.TempDir(), "x.bin"), nil)
	assert.ErrorIs(t, err, pkgerrors.ErrDownloadFailed)
}

func TestFetchFile_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	manager := NewManager(time.Minute, "")
	_, err := manager.FetchFile(context.Background(), server.URL+"/missing", filepath.Join(t.TempDir(), "x.bin"), nil)
	assert.ErrorIs(t, err, pkgerrors.ErrDownloadFailed)
}

func TestFetchText_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("manifest body"))
	}))
	defer server.Close()

	manager := NewManager(time.Minute, "")
	text, err := manager.FetchText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "manifest body", text)
}

func TestFetchText_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	manager := NewManager(time.Minute, "")
	_, err := manager.FetchText(ctx, server.URL)
	assert.Error(t, err)
}
