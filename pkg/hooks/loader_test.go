package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHooksFromDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"pre-install.tengo":  `x := 1`,
		"post-install.tengo": `y := 2`,
		"unrelated.tengo":    `z := 3`, // unknown hook type, skipped
		"notes.txt":          "not a script",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.tengo"), 0o755))

	executor := NewTengoExecutor()
	require.NoError(t, LoadHooksFromDir(executor, dir))

	assert.True(t, executor.HasHook(PreInstall))
	assert.True(t, executor.HasHook(PostInstall))
	assert.False(t, executor.HasHook(HookType("unrelated")))
}

func TestLoadHooksFromDir_MissingDirIsFine(t *testing.T) {
	executor := NewTengoExecutor()
	assert.NoError(t, LoadHooksFromDir(executor, filepath.Join(t.TempDir(), "no-such-dir")))
	assert.False(t, executor.HasHook(PreInstall))
}
