// Package install provides the JSON-backed store of installation records.
// There is at most one record per container id; saving again for the same
// container overwrites the previous record (upsert semantics).
package install

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/pkg/model"
)

// RecordStore persists installation outcomes. Writes for different container
// ids are safe to issue concurrently.
type RecordStore interface {
	// Save upserts the record for the container id and returns the record id.
	Save(containerID, installPath string, status model.InstallStatus) (string, error)
	// Get returns the record for the container id, or nil when none exists.
	Get(containerID string) *model.InstallationRecord
	// All returns every stored record.
	All() []*model.InstallationRecord
}

// StoreImpl is the JSON file implementation of RecordStore.
type StoreImpl struct {
	FormatVersion string                      `json:"format_version"`
	LastUpdate    time.Time                   `json:"last_update"`
	Records       []*model.InstallationRecord `json:"records"`

	dbPath  string
	rwMutex sync.RWMutex
}

// NewStore creates a record store backed by the JSON file at dbPath, loading
// any existing records.
func NewStore(dbPath string) (*StoreImpl, error) {
	cleanPath := filepath.Clean(dbPath)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("store path must be absolute: %s: %w", dbPath, pkgerrors.ErrInvalidPath)
	}

	store := &StoreImpl{
		FormatVersion: "1",
		LastUpdate:    time.Now(),
		Records:       make([]*model.InstallationRecord, 0, 4),
		dbPath:        cleanPath,
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := json.NewDecoder(file).Decode(store); err != nil {
		return nil, fmt.Errorf("failed to decode record store: %w", err)
	}
	return store, nil
}

// Save upserts the record for containerID and persists the store. The write
// lock is held across both the upsert and the disk write: persisting outside
// it would let a goroutine holding an older snapshot rename last and drop a
// concurrent caller's record.
func (s *StoreImpl) Save(containerID, installPath string, status model.InstallStatus) (string, error) {
	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()

	record := s.upsertLocked(containerID, installPath, status)
	if err := s.persistLocked(); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (s *StoreImpl) upsertLocked(containerID, installPath string, status model.InstallStatus) *model.InstallationRecord {
	for _, existing := range s.Records {
		if existing.ContainerID == containerID {
			existing.InstallPath = installPath
			existing.Status = status
			existing.InstalledAt = time.Now()
			s.LastUpdate = time.Now()
			return existing
		}
	}

	record := &model.InstallationRecord{
		ID:          ulid.Make().String(),
		ContainerID: containerID,
		InstallPath: installPath,
		Status:      status,
		InstalledAt: time.Now(),
	}
	s.Records = append(s.Records, record)
	s.LastUpdate = time.Now()
	return record
}

// Get returns the record for containerID, or nil.
func (s *StoreImpl) Get(containerID string) *model.InstallationRecord {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()

	for _, record := range s.Records {
		if record.ContainerID == containerID {
			return record
		}
	}
	return nil
}

// All returns a copy of the stored records.
func (s *StoreImpl) All() []*model.InstallationRecord {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()

	out := make([]*model.InstallationRecord, len(s.Records))
	copy(out, s.Records)
	return out
}

// persistLocked writes the store atomically via a temporary file. The caller
// must hold the write lock so marshal and rename cannot interleave with
// another Save.
func (s *StoreImpl) persistLocked() (err error) {
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(s.dbPath), "cellar-records-*.tmp")
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
		return fmt.Errorf("failed to marshal record store: %w", err)
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

	if err := os.Rename(tmpPath, s.dbPath); err != nil {
		return fmt.Errorf("failed to rename temporary file to %s: %w", s.dbPath, err)
	}
	return nil
}
