package store

import (
	"context"
	"testing"
)

func TestMemoryStore_SaveAndLoadRound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	snaps := []Snapshot{
		{RunID: "run-1", Round: 1, Process: 0, Dist: 0, Parent: -1, Relation: "unknown"},
		{RunID: "run-1", Round: 1, Process: 1, Dist: 4, Parent: 0, Relation: "parent"},
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
}

func TestMemoryStore_LoadRunNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.LoadRun(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_AccumulatesAcrossRounds(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_ = s.SaveRound(ctx, "run-1", 1, []Snapshot{{Round: 1, Process: 0}})
	_ = s.SaveRound(ctx, "run-1", 2, []Snapshot{{Round: 2, Process: 0}})

	got, err := s.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected snapshots from both rounds, got %d", len(got))
	}
}
