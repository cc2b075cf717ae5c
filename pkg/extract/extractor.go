// Package extract unpacks installer and package images directly to a target
// directory, bypassing the emulation layer. Installer-internal entries
// (plugin directories, uninstallers, setup scripts) are not part of the
// runtime payload and are skipped.
package extract

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/pkg/fsutil"
)

// progressEvery throttles per-file progress: the first file, every Nth file
// and the last file are reported.
const progressEvery = 25

// ProgressFunc receives the count of extracted payload files and the total
// number of payload files in the image.
type ProgressFunc func(extracted, total int)

// Extractor defines the interface for extracting an installer or package
// image to a directory.
type Extractor interface {
	// ExtractImage extracts all payload files from archivePath into destDir
	// and returns the number of files written.
	ExtractImage(ctx context.Context, archivePath, destDir string, progress ProgressFunc) (int, error)
}

// Manager extracts archives through mholt/archives, which identifies the
// format (zip, 7z, tar variants, cab-in-zip installers) from the stream.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// ExtractImage extracts all non-skipped regular files from archivePath into
// destDir. Entries are streamed one at a time; no entry is buffered in memory
// (single payload files above 250 MB are normal for client installers). Any
// per-entry failure aborts the extraction, leaving the partial output in
// place for the caller to judge.
func (m *Manager) ExtractImage(ctx context.Context, archivePath, destDir string, progress ProgressFunc) (int, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive %s: %v: %w", archivePath, err, pkgerrors.ErrExtractionFailed)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := fsutil.EnsureDir(destDir); err != nil {
		return 0, pkgerrors.Wrap(err, "failed to create destination directory")
	}

	entries, err := collectPayloadEntries(fsys)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate archive entries: %v: %w", err, pkgerrors.ErrExtractionFailed)
	}

	total := len(entries)
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := extractEntry(fsys, entry, destDir); err != nil {
			return i, fmt.Errorf("entry %s: %v: %w", entry, err, pkgerrors.ErrExtractionFailed)
		}
		if progress != nil && (i == 0 || (i+1)%progressEvery == 0 || i == total-1) {
			progress(i+1, total)
		}
	}

	return total, nil
}

// collectPayloadEntries walks the archive once and returns the forward-slash
// paths of all regular files that survive the exclusion filter.
func collectPayloadEntries(fsys fs.FS) ([]string, error) {
	var entries []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." || d.IsDir() {
			return nil
		}
		if skipEntry(p) {
			return nil
		}
		entries = append(entries, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// extractEntry stream-copies one archive entry to its place under destDir.
func extractEntry(fsys fs.FS, entryPath, destDir string) error {
	src, err := fsys.Open(entryPath)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer func() { _ = src.Close() }()

	targetPath := filepath.Join(destDir, filepath.FromSlash(entryPath))
	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	dst, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("copy: %w", err)
	}
	return dst.Close()
}

// skipEntry filters installer-internal entries that are never part of the
// runtime payload: NSIS plugin/temp trees, uninstaller binaries and setup
// scripts.
func skipEntry(entryPath string) bool {
	for _, segment := range strings.Split(entryPath, "/") {
		switch strings.ToUpper(segment) {
		case "$PLUGINSDIR", "$TEMP":
			return true
		}
	}

	base := strings.ToLower(path.Base(entryPath))
	if strings.HasPrefix(base, "uninstall") && strings.HasSuffix(base, ".exe") {
		return true
	}

	switch path.Ext(base) {
	case ".nsi", ".nsis", ".vbs", ".bat", ".cmd":
		return true
	}
	return false
}
