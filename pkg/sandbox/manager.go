package sandbox

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/glorpus-work/cellar/internal/logger"
	"github.com/glorpus-work/cellar/pkg/emulator"
	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/pkg/fsutil"
	"github.com/glorpus-work/cellar/pkg/model"
	"github.com/glorpus-work/cellar/pkg/retry"
)

// Marker files whose simultaneous existence indicates a container has
// completed first-time initialization. The check tolerates a short
// filesystem-visibility delay after creation.
const (
	markerSystemReg = "system.reg"
	markerUserReg   = "user.reg"

	markerRetryAttempts = 5
	markerRetryInterval = 200 * time.Millisecond
)

// CreateOptions configure the container created for a logical id that has no
// live container yet.
type CreateOptions struct {
	Name   string
	Preset model.PerformancePreset
}

// Manager resolves logical ids to initialized containers, creating them
// through the emulator backend when needed. Container creation is not
// reentrant-safe against races, so all of GetOrCreate runs under one mutex
// shared by every concurrent installation request.
type Manager struct {
	backend emulator.Backend
	store   *MetadataStore
	dbPath  string

	mu sync.Mutex
}

// NewManager creates a sandbox manager persisting container metadata at dbPath.
func NewManager(backend emulator.Backend, dbPath string) (*Manager, error) {
	store := NewMetadataStore()
	if err := store.Load(dbPath); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load container metadata")
	}
	return &Manager{backend: backend, store: store, dbPath: dbPath}, nil
}

// Metadata returns the persisted container metadata entries.
func (m *Manager) Metadata() []*model.ContainerMetadata {
	return m.store.All()
}

// GetOrCreate returns an initialized container for the logical id. Overlapping
// calls are serialized, not deduplicated: a second caller re-reads the
// container the first caller created rather than sharing its in-flight work.
func (m *Manager) GetOrCreate(ctx context.Context, logicalID string, opts CreateOptions) (model.SandboxContainer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	meta := m.store.FindByLogicalID(logicalID)
	if meta == nil {
		meta = &model.ContainerMetadata{
			ID:        ulid.Make().String(),
			LogicalID: logicalID,
			Name:      opts.Name,
			Preset:    opts.Preset,
		}
		if meta.Name == "" {
			meta.Name = logicalID
		}
		if !meta.Preset.Valid() {
			meta.Preset = model.PresetBalanced
		}
		m.store.Add(meta)
		if err := m.store.Save(m.dbPath); err != nil {
			return model.SandboxContainer{}, pkgerrors.Wrap(err, "failed to persist container metadata")
		}
	}

	live, err := m.backend.Containers(ctx)
	if err != nil {
		return model.SandboxContainer{}, pkgerrors.Wrap(err, "failed to list live containers")
	}
	for _, c := range live {
		if c.Name == meta.Name || c.ID == logicalID {
			if err := m.verifyInitialized(ctx, c); err != nil {
				return model.SandboxContainer{}, err
			}
			c.Initialized = true
			return c, nil
		}
	}

	// Metadata exists but the backend does not know the container: create a
	// live one and bind it to the existing metadata id.
	logger.Info("creating container", logger.Fields{"name": meta.Name, "preset": meta.Preset})
	created, err := m.backend.CreateContainer(ctx, emulator.ContainerConfig{
		Name:   meta.Name,
		Preset: meta.Preset,
	})
	if err != nil {
		return model.SandboxContainer{}, pkgerrors.Wrapf(err, "failed to create container %s", meta.Name)
	}

	if err := m.verifyInitialized(ctx, created); err != nil {
		return model.SandboxContainer{}, err
	}
	created.Initialized = true
	return created, nil
}

// verifyInitialized checks the marker-file pair with retry, absorbing the
// filesystem-visibility delay after a container's first boot. On exhaustion
// the error names both markers and their individual state, since a slow or
// interrupted first boot is the most common field failure.
func (m *Manager) verifyInitialized(ctx context.Context, c model.SandboxContainer) error {
	err := retry.Fixed(ctx, markerRetryAttempts, markerRetryInterval, func() error {
		if markersPresent(c.RootPath) {
			return nil
		}
		return pkgerrors.ErrSandboxNotInitialized
	})
	if err == nil {
		return nil
	}
	return fmt.Errorf("container %s at %s: %s: %w",
		c.Name, c.RootPath, markerDiagnostic(c.RootPath), pkgerrors.ErrSandboxNotInitialized)
}

func markersPresent(root string) bool {
	return fsutil.FileExists(filepath.Join(root, markerSystemReg)) &&
		fsutil.FileExists(filepath.Join(root, markerUserReg))
}

// markerDiagnostic describes the existence and readability of each marker
// file, e.g. "system.reg: ok; user.reg: missing".
func markerDiagnostic(root string) string {
	states := make([]string, 0, 2)
	for _, name := range []string{markerSystemReg, markerUserReg} {
		path := filepath.Join(root, name)
		switch {
		case !fsutil.FileExists(path):
			states = append(states, name+": missing")
		case !fsutil.FileReadable(path):
			states = append(states, name+": present but unreadable")
		default:
			states = append(states, name+": ok")
		}
	}
	return strings.Join(states, "; ")
}
