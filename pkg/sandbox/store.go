// Package sandbox manages the persistent containers that installations target.
// It keeps a local metadata store of known containers and reconciles it with
// the live container list reported by the emulator backend.
package sandbox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/pkg/model"
)

// MetadataStore is a JSON-backed store of container metadata. Metadata
// survives the live container: when the backend no longer knows a container,
// a new live one is created and bound to the existing metadata id.
type MetadataStore struct {
	FormatVersion string                     `json:"format_version"`
	LastUpdate    time.Time                  `json:"last_update"`
	Containers    []*model.ContainerMetadata `json:"containers"`
	rwMutex       sync.RWMutex
}

// NewMetadataStore creates an empty metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		FormatVersion: "1",
		LastUpdate:    time.Now(),
		Containers:    make([]*model.ContainerMetadata, 0, 4),
	}
}

// Load reads the store from dbPath. A missing file leaves the store empty.
func (s *MetadataStore) Load(dbPath string) error {
	cleanPath := filepath.Clean(dbPath)
	if !filepath.IsAbs(cleanPath) {
		return fmt.Errorf("store path must be absolute: %s: %w", dbPath, pkgerrors.ErrInvalidPath)
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open container store: %w", err)
	}
	defer func() { _ = file.Close() }()

	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()
	if err := json.NewDecoder(file).Decode(s); err != nil {
		return fmt.Errorf("failed to decode container store: %w", err)
	}
	return nil
}

// Save writes the store to dbPath atomically via a temporary file. The write
// lock is held across marshal and rename so overlapping Save calls cannot
// rename in snapshot order and drop each other's entries.
func (s *MetadataStore) Save(dbPath string) (err error) {
	cleanPath := filepath.Clean(dbPath)
	if !filepath.IsAbs(cleanPath) {
		return fmt.Errorf("store path must be absolute: %s: %w", dbPath, pkgerrors.ErrInvalidPath)
	}
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()

	tmpFile, err := os.CreateTemp(filepath.Dir(cleanPath), "cellar-containers-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to marshal container store: %w", err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, cleanPath); err != nil {
		return fmt.Errorf("failed to rename temporary file to %s: %w", cleanPath, err)
	}
	return nil
}

// FindByLogicalID returns the metadata entry for the logical id, or nil.
func (s *MetadataStore) FindByLogicalID(logicalID string) *model.ContainerMetadata {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()

	for _, c := range s.Containers {
		if c.LogicalID == logicalID {
			return c
		}
	}
	return nil
}

// Add inserts or replaces the metadata entry with the same logical id.
func (s *MetadataStore) Add(meta *model.ContainerMetadata) {
	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()

	for i, existing := range s.Containers {
		if existing.LogicalID == meta.LogicalID {
			s.Containers[i] = meta
			s.LastUpdate = time.Now()
			return
		}
	}
	s.Containers = append(s.Containers, meta)
	s.LastUpdate = time.Now()
}

// All returns a copy of the stored metadata entries.
func (s *MetadataStore) All() []*model.ContainerMetadata {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()
	out := make([]*model.ContainerMetadata, len(s.Containers))
	copy(out, s.Containers)
	return out
}
