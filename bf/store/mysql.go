package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a MySQL/MariaDB-backed RunStore, for recording snapshots
// from runs driven across multiple machines against a shared database.
//
// The DSN format follows github.com/go-sql-driver/mysql, e.g.:
//
//	user:password@tcp(127.0.0.1:3306)/asyncbf?parseTime=true
type MySQLStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewMySQLStore opens a connection pool against dsn and ensures the
// snapshot schema exists.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open mysql: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping mysql: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create tables: %w", err)
	}
	return s, nil
}

func (m *MySQLStore) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS round_snapshots (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id VARCHAR(255) NOT NULL,
			round INT NOT NULL,
			process_id INT NOT NULL,
			dist DOUBLE NOT NULL,
			parent BIGINT NOT NULL,
			epoch BIGINT UNSIGNED NOT NULL,
			relation VARCHAR(32) NOT NULL,
			INDEX idx_run_round (run_id, round)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
	`
	_, err := m.db.ExecContext(ctx, schema)
	return err
}

// SaveRound inserts one row per Snapshot in a single transaction.
func (m *MySQLStore) SaveRound(ctx context.Context, runID string, round int, snaps []Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("store: mysql store is closed")
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

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
func (m *MySQLStore) LoadRun(ctx context.Context, runID string) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.db.QueryContext(ctx, `
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

// Close closes the underlying connection pool.
func (m *MySQLStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.db.Close()
}
