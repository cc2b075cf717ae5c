// Package download implements streamed HTTP downloads with chunked writes
// and throttled progress reporting.
package download

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/pkg/fsutil"
)

const (
	// chunkSize is the read/write buffer size. Large enough to keep call
	// overhead negligible for multi-hundred-megabyte payloads.
	chunkSize = 128 * 1024

	// progressThreshold is the minimum number of bytes between two progress
	// callbacks, so downstream consumers are not flooded.
	progressThreshold = 512 * 1024
)

// ManagerImpl is an HTTP-based download manager. It streams response bodies
// straight to disk and never buffers a whole file in memory.
type ManagerImpl struct {
	client    *http.Client
	userAgent string
}

// NewManager creates a new download manager with the given timeout and user agent.
func NewManager(timeout time.Duration, userAgent string) *ManagerImpl {
	if userAgent == "" {
		userAgent = "cellar/1.0"
	}
	return &ManagerImpl{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// FetchFile performs a streamed GET of rawURL into destPath. Progress is
// reported every progressThreshold bytes and once more at the end. The
// destination's parent directory is created as needed.
func (m *ManagerImpl) FetchFile(ctx context.Context, rawURL, destPath string, progress ProgressFunc) (int64, error) {
	if destPath == "" || !filepath.IsAbs(destPath) {
		return 0, fmt.Errorf("destination must be absolute: %s: %w", destPath, pkgerrors.ErrInvalidPath)
	}
	if err := fsutil.EnsureFileDir(destPath); err != nil {
		return 0, pkgerrors.Wrap(err, "could not create download dir")
	}

	resp, err := m.doRequest(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	total := resp.ContentLength
	if total < 0 {
		total = 0 // no content length: callers fall back to 0% reporting
	}

	out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "could not create destination file")
	}
	defer func() { _ = out.Close() }()

	written, err := copyWithProgress(out, resp.Body, total, progress)
	if err != nil {
		return written, pkgerrors.Wrap(err, "could not write file")
	}
	if err := out.Sync(); err != nil {
		return written, pkgerrors.Wrap(err, "could not sync file")
	}
	return written, nil
}

// FetchText performs a GET of rawURL and returns the body as a string.
func (m *ManagerImpl) FetchText(ctx context.Context, rawURL string) (string, error) {
	resp, err := m.doRequest(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", pkgerrors.Wrap(err, "could not read response body")
	}
	return string(body), nil
}

func (m *ManagerImpl) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "download failed")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d: %w", resp.StatusCode, pkgerrors.ErrDownloadFailed)
	}
	return resp, nil
}

// copyWithProgress streams src into a buffered writer around dst in chunkSize
// reads, invoking progress at most once per progressThreshold bytes plus a
// final call carrying the total.
func copyWithProgress(dst io.Writer, src io.Reader, total int64, progress ProgressFunc) (int64, error) {
	writer := bufio.NewWriterSize(dst, chunkSize)
	buf := make([]byte, chunkSize)

	var written int64
	var lastReport int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := writer.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			if progress != nil && written-lastReport >= progressThreshold {
				progress(written, total)
				lastReport = written
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, readErr
		}
	}

	if err := writer.Flush(); err != nil {
		return written, err
	}
	if progress != nil {
		progress(written, total)
	}
	return written, nil
}
