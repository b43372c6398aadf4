package bf

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/distsim/asyncbf/bf/store"
)

// actorState mirrors the reference implementation's ThreadState: a cell
// the Driver and the owning actor goroutine communicate through under
// the round-begin/round-end locks.
type actorState int

const (
	stateRoundBegin actorState = iota
	stateRoundEnd
	stateExited
)

// Result carries, per ProcessID, the actor's final belief once the
// Driver has converged.
type Result struct {
	Dist   map[ProcessID]float64
	Parent map[ProcessID]ProcessID
	Rounds int
}

// Driver spawns one ProcessActor goroutine per vertex and coordinates
// them into rounds: every non-exited actor polls each of its channels
// exactly once per round, guaranteeing no channel is starved by another
// being over-polled.
type Driver struct {
	matrix ConnectivityMatrix
	root   ProcessID
	runID  string
	cfg    driverConfig

	// mu guards states; condBegin and condEnd are two condition
	// variables over the same mutex, mirroring the reference
	// implementation's separate round-begin/round-end condition
	// variables without the same-state-different-mutex race that would
	// introduce.
	mu        sync.Mutex
	condBegin *sync.Cond
	condEnd   *sync.Cond
	states    []actorState // index i is ProcessID i+1
	actors    []*ProcessActor
}

// NewDriver validates matrix (defensive validation always runs and no
// option skips it, per the Open Question decision in SPEC_FULL.md §8)
// and builds the channel graph and actors.
func NewDriver(matrix ConnectivityMatrix, root ProcessID, runID string, opts ...Option) (*Driver, error) {
	if err := matrix.Validate(root); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("bf: applying option: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(cfg.seed))
	channels, peers := BuildChannels(matrix, rng, cfg.delayMin, cfg.delayMax)

	n := len(matrix)
	d := &Driver{
		matrix: matrix,
		root:   root,
		runID:  runID,
		cfg:    cfg,
		states: make([]actorState, n),
		actors: make([]*ProcessActor, n),
	}
	d.condBegin = sync.NewCond(&d.mu)
	d.condEnd = sync.NewCond(&d.mu)

	for i := 0; i < n; i++ {
		id := ProcessID(i + 1)
		isSource := id == root
		actor := NewProcessActor(id, channels[id], peers[id], isSource, runID, cfg.emitter, cfg.metrics)
		d.actors[i] = actor
		d.states[i] = stateRoundEnd // so the first round wakes every actor
	}
	return d, nil
}

// Run spawns one goroutine per actor and round-barriers them to
// completion, returning once every actor has reached Exited. ctx is
// honored only as a best-effort abort switch: canceling it stops
// spawning further rounds, but in-flight actor goroutines still finish
// their current Step before observing cancellation, since Step itself
// has no internal suspension points (see spec.md §5).
func (d *Driver) Run(ctx context.Context) (Result, error) {
	for i := range d.actors {
		d.actors[i].Init()
	}

	var wg sync.WaitGroup
	for i := range d.actors {
		wg.Add(1)
		go d.runActor(i, &wg)
	}

	round := 0
	for {
		select {
		case <-ctx.Done():
			d.abort()
			wg.Wait()
			return Result{}, ctx.Err()
		default:
		}

		d.mu.Lock()
		anyRoundEnd := false
		for i, s := range d.states {
			if s == stateRoundEnd {
				d.states[i] = stateRoundBegin
				anyRoundEnd = true
			}
		}
		if !anyRoundEnd {
			d.mu.Unlock()
			break
		}
		round++
		d.cfg.metrics.observeRound(round)
		d.condBegin.Broadcast()

		for d.anyRoundBeginLocked() {
			d.condEnd.Wait()
		}
		d.mu.Unlock()

		d.recordRound(ctx, round)

		if d.cfg.maxRounds > 0 && round >= d.cfg.maxRounds && d.anyNotExited() {
			d.abort()
			wg.Wait()
			return Result{}, ErrNoProgress
		}
	}

	wg.Wait()
	d.cfg.metrics.observeTermination(round)
	return d.collectResult(round), nil
}

// abort forces every actor goroutine still waiting on round-begin to
// observe Exited and return, used when Run's context is canceled or the
// WithMaxRounds cap is reached.
func (d *Driver) abort() {
	d.mu.Lock()
	for i, s := range d.states {
		if s != stateExited {
			d.states[i] = stateExited
		}
	}
	d.condBegin.Broadcast()
	d.condEnd.Broadcast()
	d.mu.Unlock()
}

// anyRoundBeginLocked requires d.mu to already be held.
func (d *Driver) anyRoundBeginLocked() bool {
	for _, s := range d.states {
		if s == stateRoundBegin {
			return true
		}
	}
	return false
}

func (d *Driver) anyNotExited() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.states {
		if s != stateExited {
			return true
		}
	}
	return false
}

func (d *Driver) runActor(i int, wg *sync.WaitGroup) {
	defer wg.Done()
	actor := d.actors[i]
	round := 0
	for {
		d.mu.Lock()
		for d.states[i] != stateRoundBegin {
			if d.states[i] == stateExited {
				d.mu.Unlock()
				return
			}
			d.condBegin.Wait()
		}
		d.mu.Unlock()

		round++
		status := actor.Step(round)

		d.mu.Lock()
		if status == Exited {
			d.states[i] = stateExited
		} else {
			d.states[i] = stateRoundEnd
		}
		d.condEnd.Broadcast()
		d.mu.Unlock()

		if status == Exited {
			return
		}
	}
}

func (d *Driver) recordRound(ctx context.Context, round int) {
	inflight := 0
	for _, actor := range d.actors {
		if actor.Status() != Exited {
			inflight++
		}
	}
	d.cfg.metrics.setInflight(inflight)

	if d.cfg.runStore == nil {
		return
	}
	snaps := make([]store.Snapshot, 0, len(d.actors))
	for _, actor := range d.actors {
		parent := int64(-1)
		if actor.ParentID() != 0 {
			parent = int64(actor.ParentID())
		}
		relation := "unknown"
		if actor.ParentID() != 0 {
			relation = "parent"
		}
		snaps = append(snaps, store.Snapshot{
			RunID:    d.runID,
			Round:    round,
			Process:  uint(actor.ID()),
			Dist:     actor.Dist(),
			Parent:   parent,
			Epoch:    actor.Epoch(),
			Relation: relation,
		})
	}
	_ = d.cfg.runStore.SaveRound(ctx, d.runID, round, snaps)
}

func (d *Driver) collectResult(rounds int) Result {
	res := Result{
		Dist:   make(map[ProcessID]float64, len(d.actors)),
		Parent: make(map[ProcessID]ProcessID, len(d.actors)),
		Rounds: rounds,
	}
	for _, actor := range d.actors {
		res.Dist[actor.ID()] = actor.Dist()
		res.Parent[actor.ID()] = actor.ParentID()
	}
	return res
}
