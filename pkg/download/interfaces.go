//go:generate mockgen -destination=./mocks/download.go -package=mocks . Manager

package download

import "context"

// ProgressFunc receives the number of bytes written so far and the expected
// total. The total is 0 when the server does not expose a content length.
type ProgressFunc func(written, total int64)

// Manager defines the interface for downloading remote files. Downloads are
// streamed to disk; callers decide where the file lands and how progress is
// rendered.
type Manager interface {
	// FetchFile performs a streamed GET of rawURL into destPath, invoking
	// progress at a bounded byte-count frequency. It returns the total number
	// of bytes written.
	FetchFile(ctx context.Context, rawURL, destPath string, progress ProgressFunc) (int64, error)

	// FetchText performs a GET of rawURL and returns the body as a string.
	// Intended for small text resources such as the package manifest.
	FetchText(ctx context.Context, rawURL string) (string, error)
}
