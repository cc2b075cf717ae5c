package sandbox

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/cellar/pkg/emulator"
	"github.com/glorpus-work/cellar/pkg/emulator/mocks"
	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/pkg/model"
)

// initializedRoot creates a container root carrying both registry markers.
func initializedRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, markerSystemReg), []byte("WINE REGISTRY"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, markerUserReg), []byte("WINE REGISTRY"), 0o644))
	return root
}

func newTestManager(t *testing.T, backend emulator.Backend) *Manager {
	t.Helper()
	manager, err := NewManager(backend, filepath.Join(t.TempDir(), "containers.json"))
	require.NoError(t, err)
	return manager
}

func TestGetOrCreate_ReturnsExistingContainer(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	root := initializedRoot(t)
	backend.EXPECT().Containers(gomock.Any()).Return([]model.SandboxContainer{
		{ID: "live-1", Name: "Client", RootPath: root},
	}, nil)

	manager := newTestManager(t, backend)
	container, err := manager.GetOrCreate(context.Background(), "default", CreateOptions{Name: "Client"})
	require.NoError(t, err)
	assert.Equal(t, "live-1", container.ID)
	assert.True(t, container.Initialized)

	// Metadata was persisted for the logical id.
	meta := manager.Metadata()
	require.Len(t, meta, 1)
	assert.Equal(t, "default", meta[0].LogicalID)
	assert.NotEmpty(t, meta[0].ID)
}

func TestGetOrCreate_CreatesWhenMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	root := initializedRoot(t)
	backend.EXPECT().Containers(gomock.Any()).Return(nil, nil)
	backend.EXPECT().CreateContainer(gomock.Any(), emulator.ContainerConfig{
		Name:   "Client",
		Preset: model.PresetQuality,
	}).Return(model.SandboxContainer{ID: "new-1", Name: "Client", RootPath: root}, nil)

	manager := newTestManager(t, backend)
	container, err := manager.GetOrCreate(context.Background(), "default", CreateOptions{
		Name:   "Client",
		Preset: model.PresetQuality,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-1", container.ID)
	assert.True(t, container.Initialized)
}

func TestGetOrCreate_DefaultsNameAndPreset(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	root := initializedRoot(t)
	backend.EXPECT().Containers(gomock.Any()).Return(nil, nil)
	backend.EXPECT().CreateContainer(gomock.Any(), emulator.ContainerConfig{
		Name:   "default",
		Preset: model.PresetBalanced,
	}).Return(model.SandboxContainer{ID: "new-1", Name: "default", RootPath: root}, nil)

	manager := newTestManager(t, backend)
	_, err := manager.GetOrCreate(context.Background(), "default", CreateOptions{})
	require.NoError(t, err)
}

func TestGetOrCreate_MissingMarkersNamedInError(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, markerSystemReg), []byte("WINE REGISTRY"), 0o644))
	// user.reg deliberately absent.

	backend.EXPECT().Containers(gomock.Any()).Return([]model.SandboxContainer{
		{ID: "live-1", Name: "Client", RootPath: root},
	}, nil)

	manager := newTestManager(t, backend)
	_, err := manager.GetOrCreate(context.Background(), "default", CreateOptions{Name: "Client"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrSandboxNotInitialized)
	assert.Contains(t, err.Error(), "system.reg: ok")
	assert.Contains(t, err.Error(), "user.reg: missing")
}

func TestGetOrCreate_ConcurrentCallersCreateOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	root := initializedRoot(t)
	created := model.SandboxContainer{ID: "new-1", Name: "Client", RootPath: root}

	var mu sync.Mutex
	var live []model.SandboxContainer
	backend.EXPECT().Containers(gomock.Any()).DoAndReturn(
		func(context.Context) ([]model.SandboxContainer, error) {
			mu.Lock()
			defer mu.Unlock()
			out := make([]model.SandboxContainer, len(live))
			copy(out, live)
			return out, nil
		}).Times(2)
	backend.EXPECT().CreateContainer(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, emulator.ContainerConfig) (model.SandboxContainer, error) {
			mu.Lock()
			defer mu.Unlock()
			live = append(live, created)
			return created, nil
		}).Times(1)

	manager := newTestManager(t, backend)

	var wg sync.WaitGroup
	results := make([]model.SandboxContainer, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = manager.GetOrCreate(context.Background(), "default", CreateOptions{Name: "Client"})
		}(i)
	}
	wg.Wait()

	for i := 0; i < 2; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "new-1", results[i].ID)
	}
}
