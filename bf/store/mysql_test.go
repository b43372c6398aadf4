package store

import (
	"context"
	"os"
	"testing"
)

// MySQL tests only run when TEST_MYSQL_DSN points at a reachable server;
// they are skipped in CI environments without one.
func getTestDSN(t *testing.T) string {
	t.Helper()
	return os.Getenv("TEST_MYSQL_DSN")
}

func TestMySQLStore_SaveAndLoadRound(t *testing.T) {
	dsn := getTestDSN(t)
	if dsn == "" {
		t.Skip("skipping MySQL test: TEST_MYSQL_DSN not set")
	}

	s, err := NewMySQLStore(dsn)
	if err != nil {
		t.Fatalf("NewMySQLStore: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	snaps := []Snapshot{{Round: 1, Process: 0, Dist: 0, Parent: -1, Relation: "unknown"}}
	if err := s.SaveRound(ctx, "run-mysql-1", 1, snaps); err != nil {
		t.Fatalf("SaveRound: %v", err)
	}

	got, err := s.LoadRun(ctx, "run-mysql-1")
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(got))
	}
}
