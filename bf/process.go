package bf

import (
	"math"

	"github.com/distsim/asyncbf/bf/emit"
)

// Relation describes how a ProcessActor currently regards one incident
// channel's neighbor.
type Relation int

const (
	// RelNeighbor is the default: neither parent nor child.
	RelNeighbor Relation = iota
	// RelParent marks the channel this actor's current shortest path
	// runs through.
	RelParent
	// RelChild marks a channel whose neighbor has elected this actor as
	// its parent, acknowledged with a Parent tagged with this actor's
	// current epoch.
	RelChild
)

func (r Relation) String() string {
	switch r {
	case RelParent:
		return "parent"
	case RelChild:
		return "child"
	default:
		return "neighbor"
	}
}

// Status reports where an actor is in its round lifecycle.
type Status int

const (
	// RoundEnd means the actor polled every channel this round and is
	// ready for the next round-begin signal.
	RoundEnd Status = iota
	// Exited means the actor has forwarded or absorbed Terminate and
	// will no longer be stepped.
	Exited
)

// ProcessActor is the per-vertex state machine: it maintains the best
// known distance to the source, its elected parent, a per-neighbor
// Relation, and an epoch-tagged acknowledgement bitmap. It reacts to at
// most one message per incident channel per round (see Step).
type ProcessActor struct {
	id       ProcessID
	isSource bool
	runID    string

	channels []*MessageChannel // index i is "channel i" in spec terms
	peers    []ProcessID       // peers[i] is the neighbor reachable via channels[i]

	dist     float64
	parentID ProcessID
	// parentIndex is -1 when this actor has no parent (the source, or a
	// non-source actor never yet relaxed).
	parentIndex int

	relation []Relation

	// epoch is this actor's own monotonically increasing tag, attached
	// to every Explore it emits; Parent/NonParent acks must match it to
	// be accepted.
	epoch uint64

	// currParentEpoch is the epoch carried by the Explore that most
	// recently relaxed this actor; it is the tag this actor must use
	// when acknowledging its OWN parent.
	currParentEpoch uint64

	waitingList []bool

	round  int
	status Status

	emitter emit.Emitter
	metrics *Metrics
}

// NewProcessActor builds the actor for vertex id. channels and peers must
// be parallel slices: channels[i] connects id to peers[i]. isSource marks
// the designated root, which starts at dist=0 and never acquires a
// parent.
func NewProcessActor(id ProcessID, channels []*MessageChannel, peers []ProcessID, isSource bool, runID string, emitter emit.Emitter, metrics *Metrics) *ProcessActor {
	if emitter == nil {
		emitter = emit.NewNullEmitter()
	}
	n := len(channels)
	p := &ProcessActor{
		id:          id,
		isSource:    isSource,
		runID:       runID,
		channels:    channels,
		peers:       peers,
		parentIndex: -1,
		relation:    make([]Relation, n),
		waitingList: make([]bool, n),
		emitter:     emitter,
		metrics:     metrics,
	}
	if isSource {
		p.dist = 0
	} else {
		p.dist = math.Inf(1)
	}
	return p
}

// Init performs the source's initial Explore broadcast. Non-source actors
// need no initialization beyond NewProcessActor's zero state.
func (p *ProcessActor) Init() {
	if !p.isSource {
		return
	}
	p.epoch = 1
	for i := range p.waitingList {
		p.waitingList[i] = false
	}
	for _, ch := range p.channels {
		ch.Send(p.id, NewExplore(p.id, p.epoch, p.dist))
	}
	p.emit("init_explore", nil)
}

// ID returns the vertex id this actor represents.
func (p *ProcessActor) ID() ProcessID { return p.id }

// Status reports the actor's current lifecycle state.
func (p *ProcessActor) Status() Status { return p.status }

// Dist returns the actor's current best-known distance to the source.
func (p *ProcessActor) Dist() float64 { return p.dist }

// ParentID returns the actor's elected parent, or 0 if it has none (the
// source, or a non-source actor never yet relaxed).
func (p *ProcessActor) ParentID() ProcessID { return p.parentID }

// Epoch returns the actor's current outgoing epoch tag, for diagnostics.
func (p *ProcessActor) Epoch() uint64 { return p.epoch }

// Step performs one round: a single non-blocking poll of every incident
// channel in fixed index order, reacting to whatever arrives, then
// applying the per-round termination checks described in spec §4.3.
func (p *ProcessActor) Step(round int) Status {
	p.round = round
	if p.status == Exited {
		return Exited
	}

	for i, ch := range p.channels {
		msg, ok := ch.Receive(p.id)
		if !ok {
			continue
		}
		p.react(i, msg)
		if p.status == Exited {
			return Exited
		}
		if !p.isSource && p.parentIndex != -1 && p.allAcked() {
			p.sendParentAck()
		}
	}

	if p.isSource && p.allAcked() {
		p.broadcastTerminate()
		p.status = Exited
		return Exited
	}

	p.status = RoundEnd
	return RoundEnd
}

func (p *ProcessActor) allAcked() bool {
	for _, acked := range p.waitingList {
		if !acked {
			return false
		}
	}
	return true
}

func (p *ProcessActor) sendParentAck() {
	p.channels[p.parentIndex].Send(p.id, NewParent(p.id, p.currParentEpoch))
	p.metrics.incAck("parent")
	p.emit("send_parent_ack", map[string]interface{}{"epoch": int64(p.currParentEpoch)})
}

func (p *ProcessActor) broadcastTerminate() {
	for i, ch := range p.channels {
		if p.relation[i] == RelChild {
			ch.Send(p.id, NewTerminate(p.id))
		}
	}
	p.metrics.incTerminate()
	p.emit("terminate_broadcast", nil)
}

func (p *ProcessActor) react(i int, m Message) {
	switch m.Kind {
	case Explore:
		p.reactExplore(i, m)
	case NonParent:
		p.reactNonParent(i, m)
	case Parent:
		p.reactParent(i, m)
	case Terminate:
		p.reactTerminate(i, m)
	}
}

func (p *ProcessActor) reactExplore(i int, m Message) {
	d := p.channels[i].Weight() + m.Dist
	if d < p.dist {
		prevParentIndex := p.parentIndex
		prevParentEpoch := p.currParentEpoch

		p.dist = d
		p.parentIndex = i
		p.parentID = m.Sender
		p.currParentEpoch = m.Epoch
		p.relation[i] = RelParent

		p.epoch++
		for j := range p.waitingList {
			p.waitingList[j] = false
		}
		p.waitingList[p.parentIndex] = true

		for j, ch := range p.channels {
			if j == i {
				continue
			}
			ch.Send(p.id, NewExplore(p.id, p.epoch, p.dist))
		}

		if prevParentIndex != -1 && prevParentIndex != i {
			p.channels[prevParentIndex].Send(p.id, NewNonParent(p.id, prevParentEpoch))
			p.metrics.incAck("non_parent")
		}

		p.metrics.incRelaxation()
		p.emit("relax", map[string]interface{}{"dist": p.dist, "parent": int64(p.parentID), "epoch": int64(p.epoch)})
	} else {
		p.channels[i].Send(p.id, NewNonParent(p.id, m.Epoch))
		p.metrics.incAck("non_parent")
	}
}

func (p *ProcessActor) reactNonParent(i int, m Message) {
	if m.Epoch != p.epoch {
		return // stale ack, discard
	}
	p.waitingList[i] = true
	p.relation[i] = RelNeighbor
}

func (p *ProcessActor) reactParent(i int, m Message) {
	if m.Epoch != p.epoch {
		return // stale ack, discard
	}
	p.waitingList[i] = true
	p.relation[i] = RelChild
}

func (p *ProcessActor) reactTerminate(i int, _ Message) {
	if p.isSource || i != p.parentIndex {
		return
	}
	for j, ch := range p.channels {
		if p.relation[j] == RelChild {
			ch.Send(p.id, NewTerminate(p.id))
		}
	}
	p.metrics.incTerminate()
	p.status = Exited
	p.emit("terminate_absorbed", nil)
}

func (p *ProcessActor) emit(msg string, meta map[string]interface{}) {
	p.emitter.Emit(emit.Event{
		RunID:     p.runID,
		Round:     p.round,
		ProcessID: uint(p.id),
		Msg:       msg,
		Meta:      meta,
	})
}
