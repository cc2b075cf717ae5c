package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
)

func TestExecute_NoScriptIsNoOp(t *testing.T) {
	executor := NewTengoExecutor()
	assert.NoError(t, executor.Execute(PreInstall, HookContext{}))
}

func TestExecute_BindingsAvailableToScript(t *testing.T) {
	executor := NewTengoExecutor()
	script := `
err := ""
if appName != "Client" {
	err = "unexpected app: " + appName
}
if installPath == "" {
	err = "install path not bound"
}
`
	require.NoError(t, executor.AddHook(Hook{Type: PreInstall, Content: script}))

	err := executor.Execute(PreInstall, HookContext{
		AppName:     "Client",
		ContainerID: "c1",
		InstallPath: "/containers/c1/drive_c/Client",
	})
	assert.NoError(t, err)
}

func TestExecute_ScriptErrorPropagates(t *testing.T) {
	executor := NewTengoExecutor()
	require.NoError(t, executor.AddHook(Hook{Type: PostInstall, Content: `err := "registry patch failed"`}))

	err := executor.Execute(PostInstall, HookContext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrHookScript)
	assert.Contains(t, err.Error(), "registry patch failed")
}

func TestExecute_ExtraVars(t *testing.T) {
	executor := NewTengoExecutor()
	require.NoError(t, executor.AddHook(Hook{Type: PreInstall, Content: `
err := ""
if retries != 3 {
	err = "vars not bound"
}
`}))

	err := executor.Execute(PreInstall, HookContext{
		Vars: map[string]interface{}{"retries": 3},
	})
	assert.NoError(t, err)
}

func TestExecute_InvalidScript(t *testing.T) {
	executor := NewTengoExecutor()
	require.NoError(t, executor.AddHook(Hook{Type: PreInstall, Content: `if (`}))

	err := executor.Execute(PreInstall, HookContext{})
	assert.ErrorIs(t, err, pkgerrors.ErrHookExecution)
}

func TestExecute_StdlibImports(t *testing.T) {
	executor := NewTengoExecutor()
	require.NoError(t, executor.AddHook(Hook{Type: PreInstall, Content: `
strings := import("strings")
err := ""
if !strings.has_prefix(installPath, "/containers") {
	err = "unexpected prefix"
}
`}))

	err := executor.Execute(PreInstall, HookContext{InstallPath: "/containers/c1"})
	assert.NoError(t, err)
}

func TestAddHook_RejectsEmptyType(t *testing.T) {
	executor := NewTengoExecutor()
	assert.ErrorIs(t, executor.AddHook(Hook{Content: "x := 1"}), pkgerrors.ErrHookLoad)
}

func TestHasHook(t *testing.T) {
	executor := NewTengoExecutor()
	assert.False(t, executor.HasHook(PreInstall))

	require.NoError(t, executor.AddHook(Hook{Type: PreInstall, Content: "x := 1"}))
	assert.True(t, executor.HasHook(PreInstall))
	assert.False(t, executor.HasHook(PostInstall))
}
