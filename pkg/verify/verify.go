// Package verify computes streaming SHA-256 digests over downloaded artifacts
// and compares them against the hashes declared by the manifest.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
)

// FileSHA256 computes the hex-encoded SHA-256 digest of the file at path.
// The file is read incrementally; it is never loaded into memory whole.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", pkgerrors.Wrap(err, "open for checksum")
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", pkgerrors.Wrap(err, "hashing")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyFile reports whether the file's digest matches wantHex. The
// comparison is case-insensitive.
func VerifyFile(path, wantHex string) (bool, error) {
	got, err := FileSHA256(path)
	if err != nil {
		return false, err
	}
	return got == normalizeHex(wantHex), nil
}

// VerifyAndRemove verifies the file against wantHex and deletes it on
// mismatch. A corrupted package is never trusted partially; the caller treats
// the returned ErrHashMismatch as a hard stop.
func VerifyAndRemove(path, wantHex string) error {
	ok, err := VerifyFile(path, wantHex)
	if err != nil {
		return err
	}
	if !ok {
		if rmErr := os.Remove(path); rmErr != nil {
			return fmt.Errorf("removing corrupted file %s: %v: %w", path, rmErr, pkgerrors.ErrHashMismatch)
		}
		return fmt.Errorf("%s: %w", path, pkgerrors.ErrHashMismatch)
	}
	return nil
}

func normalizeHex(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
