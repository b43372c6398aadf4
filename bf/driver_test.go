package bf

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDriver_RejectsInvalidGraph(t *testing.T) {
	m := ConnectivityMatrix{
		{-1, 5},
		{3, -1},
	}
	if _, err := NewDriver(m, 1, "run"); err == nil {
		t.Fatal("expected validation error for asymmetric matrix")
	}
}

// disconnectedMatrix has an isolated vertex 3, unreachable from root 1;
// the driver never converges on it without a round cap.
var disconnectedMatrix = ConnectivityMatrix{
	{-1, 5, -1},
	{5, -1, -1},
	{-1, -1, -1},
}

func TestDriver_MaxRoundsCapsDisconnectedGraph(t *testing.T) {
	d, err := NewDriver(disconnectedMatrix, 1, "disconnected", WithMaxRounds(50))
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = d.Run(ctx)
	if !errors.Is(err, ErrNoProgress) {
		t.Fatalf("expected ErrNoProgress on disconnected graph with max rounds, got %v", err)
	}
}

func TestDriver_ContextCancellationAborts(t *testing.T) {
	d, err := NewDriver(disconnectedMatrix, 1, "cancel-me")
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := d.Run(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected context.DeadlineExceeded, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Driver.Run did not honor context cancellation")
	}
}

func TestDriver_OptionsAreApplied(t *testing.T) {
	m := ConnectivityMatrix{
		{-1, 5},
		{5, -1},
	}
	d, err := NewDriver(m, 1, "opts", WithDelayRange(2, 2), WithSeed(7))
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if d.cfg.delayMin != 2 || d.cfg.delayMax != 2 {
		t.Errorf("delay range not applied: got [%d,%d]", d.cfg.delayMin, d.cfg.delayMax)
	}
	if d.cfg.seed != 7 {
		t.Errorf("seed not applied: got %d", d.cfg.seed)
	}
}

func TestWithRandSource_IsDeterministic(t *testing.T) {
	var c1, c2 driverConfig
	c1 = defaultConfig()
	c2 = defaultConfig()
	_ = WithRandSource("same-name")(&c1)
	_ = WithRandSource("same-name")(&c2)
	if c1.seed != c2.seed {
		t.Errorf("expected identical seeds for identical names, got %d vs %d", c1.seed, c2.seed)
	}
}
