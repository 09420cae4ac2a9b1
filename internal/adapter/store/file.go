package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chipap/mareas-service/internal/domain"
)

// FileStore keeps one JSON file per station, marea_<id>.json, in a cache
// directory. This is the historical cache contract the frontend reads.
type FileStore struct {
	dir string
}

// NewFileStore creates the cache directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Read returns the persisted snapshot for a station, or ErrNotFound.
func (s *FileStore) Read(stationID string) (*domain.Snapshot, error) {
	raw, err := os.ReadFile(s.path(stationID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot %s: %w", stationID, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", stationID, err)
	}
	return &snap, nil
}

// Write replaces the station's snapshot atomically: the JSON is written to a
// temp file in the same directory and renamed over the target, so readers
// never observe a half-written file.
func (s *FileStore) Write(stationID string, snap domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize snapshot %s: %w", stationID, err)
	}

	tmp, err := os.CreateTemp(s.dir, "marea_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot %s: %w", stationID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot %s: %w", stationID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(stationID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot %s: %w", stationID, err)
	}
	return nil
}

func (s *FileStore) path(stationID string) string {
	return filepath.Join(s.dir, "marea_"+stationID+".json")
}
