package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
)

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artifact.bin")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func digestOf(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func TestFileSHA256(t *testing.T) {
	content := []byte("payload bytes")
	path := writeTemp(t, content)

	got, err := FileSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, digestOf(content), got)
}

func TestFileSHA256_MissingFile(t *testing.T) {
	_, err := FileSHA256(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestVerifyFile_CaseInsensitive(t *testing.T) {
	content := []byte("payload")
	path := writeTemp(t, content)

	ok, err := VerifyFile(path, strings.ToUpper(digestOf(content)))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyFile(path, strings.Repeat("00", 32))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyAndRemove_MatchKeepsFile(t *testing.T) {
	content := []byte("good payload")
	path := writeTemp(t, content)

	require.NoError(t, VerifyAndRemove(path, digestOf(content)))
	assert.FileExists(t, path)
}

func TestVerifyAndRemove_MismatchDeletesFile(t *testing.T) {
	path := writeTemp(t, []byte("corrupted payload"))

	err := VerifyAndRemove(path, strings.Repeat("ab", 32))
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrHashMismatch)
	assert.NoFileExists(t, path)
}
