package install

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/pkg/model"
)

func TestNewStore_RejectsRelativePath(t *testing.T) {
	_, err := NewStore("relative/installed.json")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidPath)
}

func TestStore_SaveAndGet(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "installed.json"))
	require.NoError(t, err)

	id, err := store.Save("container-1", "/containers/c1/drive_c/App", model.StatusInstalled)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	record := store.Get("container-1")
	require.NotNil(t, record)
	assert.Equal(t, id, record.ID)
	assert.Equal(t, model.StatusInstalled, record.Status)
	assert.WithinDuration(t, time.Now(), record.InstalledAt, time.Minute)

	assert.Nil(t, store.Get("unknown"))
}

func TestStore_SaveUpsertsPerContainer(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "installed.json"))
	require.NoError(t, err)

	first, err := store.Save("container-1", "/old/path", model.StatusNotInstalled)
	require.NoError(t, err)
	second, err := store.Save("container-1", "/new/path", model.StatusInstalled)
	require.NoError(t, err)

	// Re-saving keeps the record id and overwrites the rest.
	assert.Equal(t, first, second)
	require.Len(t, store.All(), 1)
	record := store.Get("container-1")
	assert.Equal(t, "/new/path", record.InstallPath)
	assert.Equal(t, model.StatusInstalled, record.Status)
}

func TestStore_ConcurrentSavesForDistinctContainersAllDurable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "installed.json")

	store, err := NewStore(dbPath)
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			containerID := fmt.Sprintf("container-%d", i)
			_, errs[i] = store.Save(containerID, "/containers/"+containerID, model.StatusInstalled)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	// Every record must survive on disk: a save writing a stale snapshot last
	// would silently drop concurrent writers' records.
	reopened, err := NewStore(dbPath)
	require.NoError(t, err)
	require.Len(t, reopened.All(), writers)
	for i := 0; i < writers; i++ {
		assert.NotNil(t, reopened.Get(fmt.Sprintf("container-%d", i)))
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state", "installed.json")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	_, err = store.Save("container-1", "/containers/c1/drive_c/App", model.StatusInstalled)
	require.NoError(t, err)
	_, err = store.Save("container-2", "/containers/c2/drive_c/App", model.StatusInstalled)
	require.NoError(t, err)

	reopened, err := NewStore(dbPath)
	require.NoError(t, err)
	assert.Len(t, reopened.All(), 2)
	require.NotNil(t, reopened.Get("container-2"))
	assert.Equal(t, "/containers/c2/drive_c/App", reopened.Get("container-2").InstallPath)
}
