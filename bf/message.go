// Package bf implements the asynchronous distributed Bellman-Ford
// shortest-path simulator: one goroutine per graph vertex, communicating
// only through per-edge MessageChannels with randomized delivery delay,
// coordinated into rounds by a Driver.
package bf

import "fmt"

// Kind identifies the four message shapes the protocol exchanges.
type Kind int

const (
	// Explore carries a distance offer from sender to receiver.
	Explore Kind = iota
	// Parent is an affirmative acknowledgement: "you are my parent for this epoch".
	Parent
	// NonParent is a negative acknowledgement: "you are not my parent for this epoch".
	NonParent
	// Terminate propagates shutdown down the spanning tree.
	Terminate
)

func (k Kind) String() string {
	switch k {
	case Explore:
		return "Explore"
	case Parent:
		return "Parent"
	case NonParent:
		return "NonParent"
	case Terminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}

// Message is an immutable record sent over a MessageChannel.
//
// Epoch is meaningful only for Explore/Parent/NonParent; Dist is
// meaningful only for Explore. Terminate uses neither.
type Message struct {
	Kind   Kind
	Sender ProcessID
	Epoch  uint64
	Dist   float64
}

// NewExplore builds an Explore message. Dist must be finite and
// non-negative: it is a distance estimate carried along a positive-weight
// graph, never a sentinel or error value.
func NewExplore(sender ProcessID, epoch uint64, dist float64) Message {
	return Message{Kind: Explore, Sender: sender, Epoch: epoch, Dist: dist}
}

// NewParent builds a Parent acknowledgement for the given epoch.
func NewParent(sender ProcessID, epoch uint64) Message {
	return Message{Kind: Parent, Sender: sender, Epoch: epoch}
}

// NewNonParent builds a NonParent acknowledgement for the given epoch.
func NewNonParent(sender ProcessID, epoch uint64) Message {
	return Message{Kind: NonParent, Sender: sender, Epoch: epoch}
}

// NewTerminate builds a Terminate message.
func NewTerminate(sender ProcessID) Message {
	return Message{Kind: Terminate, Sender: sender}
}

// String renders the message for diagnostic logging only; it is not a
// wire format and carries no stability guarantee across versions.
func (m Message) String() string {
	switch m.Kind {
	case Explore:
		return fmt.Sprintf("explore from proc %d: epoch=%d dist=%v", m.Sender, m.Epoch, m.Dist)
	case Parent:
		return fmt.Sprintf("parent ack from proc %d: epoch=%d", m.Sender, m.Epoch)
	case NonParent:
		return fmt.Sprintf("non-parent ack from proc %d: epoch=%d", m.Sender, m.Epoch)
	case Terminate:
		return fmt.Sprintf("terminate from proc %d", m.Sender)
	default:
		return fmt.Sprintf("unknown message from proc %d", m.Sender)
	}
}

// ProcessID is a positive integer, 1-based, identifying a vertex.
type ProcessID uint
