package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
)

// DefaultSnapshotTTL is how long an explorer snapshot can be resumed.
const DefaultSnapshotTTL = 7 * 24 * time.Hour

// Snapshot is the resumable state of an explorer session.
type Snapshot struct {
	ID        string      `json:"id"`
	ScenePath string      `json:"scene_path"`
	Scroll    geom.Coords `json:"scroll"`
	Step      float64     `json:"step"`
	ExpiresAt time.Time   `json:"expires_at"`
	SavedAt   time.Time   `json:"saved_at"`
}

// IsExpired returns true if the snapshot has expired.
func (s *Snapshot) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// FileStore keeps snapshots as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	ttl     time.Duration
}

// NewFileStore creates a snapshot store.
// If baseDir is empty, defaults to ~/.config/anchor/sessions/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "anchor", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, ttl: DefaultSnapshotTTL}, nil
}

func (s *FileStore) snapshotPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Get returns the snapshot with the given ID, or nil if it does not exist or
// has expired.
func (s *FileStore) Get(_ context.Context, id string) (*Snapshot, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.snapshotPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.IsExpired() {
		_ = os.Remove(path)
		return nil, nil
	}
	return &snap, nil
}

// Set stores a snapshot, stamping SavedAt and ExpiresAt.
func (s *FileStore) Set(_ context.Context, snap *Snapshot) error {
	if err := validateID(snap.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap.SavedAt = time.Now()
	snap.ExpiresAt = snap.SavedAt.Add(s.ttl)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.snapshotPath(snap.ID), data, 0o600); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}

// Delete removes a snapshot.
func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.snapshotPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot file: %w", err)
	}
	return nil
}

// Cleanup removes expired snapshots.
func (s *FileStore) Cleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read session dir: %w", err)
	}

	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}
		if now.After(snap.ExpiresAt) {
			_ = os.Remove(path)
		}
	}
	return nil
}

func validateID(id string) error {
	if err := errors.ValidateName("snapshot", id); err != nil {
		return err
	}
	if filepath.Base(id) != id || id == "." || id == ".." {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot name %q must not contain path separators", id)
	}
	return nil
}

// Path returns the base directory for snapshot files.
func (s *FileStore) Path() string {
	return s.baseDir
}
