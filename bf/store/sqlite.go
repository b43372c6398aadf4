package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a file-backed RunStore using modernc.org/sqlite (pure Go,
// no cgo). Suited to single-machine CLI runs where a run's snapshots should
// survive process exit for later inspection.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (or creates) the database file at path and ensures
// the snapshot schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// SQLite allows only one writer at a time; a single connection avoids
	// SQLITE_BUSY errors under our own round-by-round write pattern.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set busy_timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS round_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			process_id INTEGER NOT NULL,
			dist REAL NOT NULL,
			parent INTEGER NOT NULL,
			epoch INTEGER NOT NULL,
			relation TEXT NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_round_snapshots_run ON round_snapshots(run_id, round)")
	return err
}

// SaveRound inserts one row per Snapshot in a single transaction.
func (s *SQLiteStore) SaveRound(ctx context.Context, runID string, round int, snaps []Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store: sqlite store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op once committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO round_snapshots (run_id, round, process_id, dist, parent, epoch, relation)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, snap := range snaps {
		if _, err := stmt.ExecContext(ctx, runID, round, snap.Process, snap.Dist, snap.Parent, snap.Epoch, snap.Relation); err != nil {
			return fmt.Errorf("store: insert snapshot: %w", err)
		}
	}
	return tx.Commit()
}

// LoadRun returns every Snapshot recorded for runID, ordered by round then
// process ID.
func (s *SQLiteStore) LoadRun(ctx context.Context, runID string) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT round, process_id, dist, parent, epoch, relation
		FROM round_snapshots
		WHERE run_id = ?
		ORDER BY round ASC, process_id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		snap.RunID = runID
		if err := rows.Scan(&snap.Round, &snap.Process, &snap.Dist, &snap.Parent, &snap.Epoch, &snap.Relation); err != nil {
			return nil, fmt.Errorf("store: scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, ErrNotFound
	}
	return snaps, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
