// Package store provides diagnostic persistence for simulation runs.
//
// It is NOT a checkpoint/resume mechanism: a RunStore records round-by-round
// snapshots of actor state for post-hoc inspection and replay viewing only.
// Killing a simulation mid-run and restarting it from a stored snapshot is
// out of scope; the asynchronous model has no notion of resuming a process
// that forgot its in-memory state.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested run ID has no recorded snapshots.
var ErrNotFound = errors.New("store: run not found")

// Snapshot captures one process's belief at the end of a round.
type Snapshot struct {
	RunID    string
	Round    int
	Process  uint
	Dist     float64
	Parent   int64 // -1 when the process has no parent (the source, or not yet relaxed)
	Epoch    uint64
	Relation string // the Driver records "parent" once the process has a parent, else "unknown"
}

// RunStore persists round-by-round Snapshots for diagnostics and replay
// viewing.
//
// Implementations:
//   - MemoryStore: in-process, for tests and ephemeral runs.
//   - SQLiteStore: single-file, for local CLI use (modernc.org/sqlite).
//   - MySQLStore: shared, for recording runs driven from multiple machines
//     against a common database (github.com/go-sql-driver/mysql).
type RunStore interface {
	// SaveRound persists every Snapshot produced at the end of one round.
	SaveRound(ctx context.Context, runID string, round int, snaps []Snapshot) error

	// LoadRun returns every Snapshot recorded for runID, ordered by round
	// then process ID. Returns ErrNotFound if no rounds were ever saved.
	LoadRun(ctx context.Context, runID string) ([]Snapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
