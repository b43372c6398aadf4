package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStore_SaveAndLoadRound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	snaps := []Snapshot{
		{Round: 1, Process: 0, Dist: 0, Parent: -1, Relation: "unknown"},
		{Round: 1, Process: 1, Dist: 4, Parent: 0, Epoch: 1, Relation: "parent"},
	}
	if err := s.SaveRound(ctx, "run-1", 1, snaps); err != nil {
		t.Fatalf("SaveRound: %v", err)
	}

	got, err := s.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(got))
	}
	if got[1].Relation != "parent" || got[1].Parent != 0 {
		t.Errorf("unexpected second snapshot: %+v", got[1])
	}
}

func TestSQLiteStore_LoadRunNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, err := s.LoadRun(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_SaveAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	err = s.SaveRound(context.Background(), "run-1", 1, []Snapshot{{Round: 1}})
	if err == nil {
		t.Fatal("expected error saving to closed store")
	}
}
