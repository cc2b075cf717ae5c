package sandbox

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/pkg/model"
)

func TestMetadataStore_LoadMissingFile(t *testing.T) {
	store := NewMetadataStore()
	require.NoError(t, store.Load(filepath.Join(t.TempDir(), "containers.json")))
	assert.Empty(t, store.All())
}

func TestMetadataStore_RejectsRelativePath(t *testing.T) {
	store := NewMetadataStore()
	assert.ErrorIs(t, store.Load("relative/containers.json"), pkgerrors.ErrInvalidPath)
	assert.ErrorIs(t, store.Save("relative/containers.json"), pkgerrors.ErrInvalidPath)
}

func TestMetadataStore_SaveLoadRoundtrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state", "containers.json")

	store := NewMetadataStore()
	store.Add(&model.ContainerMetadata{
		ID:        "01HXYZ",
		LogicalID: "default",
		Name:      "Client",
		Preset:    model.PresetPerformance,
	})
	require.NoError(t, store.Save(dbPath))

	loaded := NewMetadataStore()
	require.NoError(t, loaded.Load(dbPath))

	meta := loaded.FindByLogicalID("default")
	require.NotNil(t, meta)
	assert.Equal(t, "01HXYZ", meta.ID)
	assert.Equal(t, "Client", meta.Name)
	assert.Equal(t, model.PresetPerformance, meta.Preset)
}

func TestMetadataStore_ConcurrentSavesAllDurable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "containers.json")
	store := NewMetadataStore()

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Add(&model.ContainerMetadata{
				ID:        fmt.Sprintf("id-%d", i),
				LogicalID: fmt.Sprintf("logical-%d", i),
				Name:      fmt.Sprintf("container-%d", i),
			})
			errs[i] = store.Save(dbPath)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	// The save that renames last must carry every writer's entry.
	loaded := NewMetadataStore()
	require.NoError(t, loaded.Load(dbPath))
	require.Len(t, loaded.All(), writers)
	for i := 0; i < writers; i++ {
		assert.NotNil(t, loaded.FindByLogicalID(fmt.Sprintf("logical-%d", i)))
	}
}

func TestMetadataStore_AddReplacesByLogicalID(t *testing.T) {
	store := NewMetadataStore()
	store.Add(&model.ContainerMetadata{ID: "a", LogicalID: "default", Name: "First"})
	store.Add(&model.ContainerMetadata{ID: "b", LogicalID: "default", Name: "Second"})
	store.Add(&model.ContainerMetadata{ID: "c", LogicalID: "other", Name: "Third"})

	require.Len(t, store.All(), 2)
	assert.Equal(t, "b", store.FindByLogicalID("default").ID)
	assert.Nil(t, store.FindByLogicalID("unknown"))
}
