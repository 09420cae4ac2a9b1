// Package store persists station snapshots. The pipeline only sees the Store
// interface; backend selection happens at wiring time, never inside the core.
package store

import "errors"

// ErrNotFound marks a station with no persisted snapshot yet.
var ErrNotFound = errors.New("snapshot not found")
