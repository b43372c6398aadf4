package bf

import (
	"math/rand"
	"sync"
)

// queuedMessage pairs a message with the number of Receive polls still
// required before it may be dequeued, modeling variable delivery latency.
type queuedMessage struct {
	countdown int
	msg       Message
}

// MessageChannel is an edge-scoped bidirectional queue pair with
// randomized per-message delay, modeling one undirected graph edge.
//
// Both directions are guarded by independent mutexes: a Send on one
// direction never blocks a Receive on the other, and the two endpoints'
// Sends never contend for the same queue lock. Within one direction the
// sender and the receiver share that direction's mutex, and both
// directions' countdown draws share rngMu.
type MessageChannel struct {
	a, b   ProcessID // endpoints, a < b
	weight float64

	delayMin, delayMax int
	rng                *rand.Rand
	rngMu              sync.Mutex // guards rng; draws happen from both Send directions

	muAtoB sync.Mutex
	aToB   []queuedMessage // delivered to b, sent by a

	muBtoA sync.Mutex
	bToA   []queuedMessage // delivered to a, sent by b
}

// NewMessageChannel constructs the channel for one undirected edge
// (a,b) with a<b and the given positive weight. seed gives this channel
// its own private *rand.Rand — math/rand.Rand is not safe for
// concurrent use, and both endpoints' Send calls draw a countdown from
// the same channel concurrently, so no two channels may share a
// generator even though each guards its draws with rngMu.
// delayMin/delayMax bound the draw inclusively, matching the reference
// implementation's uniform_int_distribution(1, 15).
func NewMessageChannel(a, b ProcessID, weight float64, seed int64, delayMin, delayMax int) *MessageChannel {
	if b < a {
		a, b = b, a
	}
	return &MessageChannel{
		a: a, b: b,
		weight:   weight,
		delayMin: delayMin,
		delayMax: delayMax,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Weight returns the immutable edge weight.
func (c *MessageChannel) Weight() float64 { return c.weight }

// Other returns the endpoint id on the far side of sender, or 0 if
// sender is not one of this channel's two endpoints.
func (c *MessageChannel) Other(sender ProcessID) ProcessID {
	switch sender {
	case c.a:
		return c.b
	case c.b:
		return c.a
	default:
		return 0
	}
}

func (c *MessageChannel) drawCountdown() int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	if c.delayMax <= c.delayMin {
		return c.delayMin
	}
	return c.delayMin + c.rng.Intn(c.delayMax-c.delayMin+1)
}

// Send enqueues msg for the endpoint opposite sender, drawing a fresh
// random countdown. Send always succeeds and never blocks; ownership of
// msg transfers to the channel until a matching Receive returns it.
func (c *MessageChannel) Send(sender ProcessID, msg Message) {
	q := queuedMessage{countdown: c.drawCountdown(), msg: msg}
	switch sender {
	case c.a:
		c.muAtoB.Lock()
		c.aToB = append(c.aToB, q)
		c.muAtoB.Unlock()
	case c.b:
		c.muBtoA.Lock()
		c.bToA = append(c.bToA, q)
		c.muBtoA.Unlock()
	}
}

// Receive performs one non-blocking poll of the queue destined for
// receiver. If the queue is empty, it returns (Message{}, false). If the
// head message's countdown has not yet reached zero, it is decremented
// in place and Receive returns (Message{}, false) — this still
// "advances time" by one tick, guaranteeing progress on every poll.
// Otherwise the head message is dequeued and returned.
func (c *MessageChannel) Receive(receiver ProcessID) (Message, bool) {
	switch receiver {
	case c.a:
		return c.receiveFrom(&c.muBtoA, &c.bToA)
	case c.b:
		return c.receiveFrom(&c.muAtoB, &c.aToB)
	default:
		return Message{}, false
	}
}

func (c *MessageChannel) receiveFrom(mu *sync.Mutex, queue *[]queuedMessage) (Message, bool) {
	mu.Lock()
	defer mu.Unlock()

	if len(*queue) == 0 {
		return Message{}, false
	}
	head := &(*queue)[0]
	if head.countdown > 0 {
		head.countdown--
		return Message{}, false
	}
	msg := head.msg
	*queue = (*queue)[1:]
	return msg, true
}
