package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chipap/mareas-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
  station_id TEXT PRIMARY KEY,
  datos      TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`

// SQLiteStore keeps the latest snapshot per station in a single table. Each
// write replaces the row wholesale, matching the file backend's semantics.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and initializes) a snapshot database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	// busy_timeout smooths over the trigger endpoint racing a CLI run in dev;
	// WAL keeps reads open during a write.
	params := []string{"_busy_timeout=5000", "_journal_mode=WAL"}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")))
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an already-open database, for tests.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Read returns the persisted snapshot for a station, or ErrNotFound.
func (s *SQLiteStore) Read(stationID string) (*domain.Snapshot, error) {
	var datos string
	err := s.db.QueryRow(`SELECT datos FROM snapshots WHERE station_id = ?`, stationID).Scan(&datos)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", stationID, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(datos), &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", stationID, err)
	}
	return &snap, nil
}

// Write upserts the station's snapshot.
func (s *SQLiteStore) Write(stationID string, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("serialize snapshot %s: %w", stationID, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (station_id, datos, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(station_id) DO UPDATE SET datos = excluded.datos, updated_at = excluded.updated_at`,
		stationID, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write snapshot %s: %w", stationID, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
