// Package emit provides pluggable observability sinks for a simulation run:
// the source's initial Explore broadcast and every relaxation, Parent
// acknowledgement, and termination a ProcessActor performs is reported as
// an Event. NonParent acknowledgements are not reported, and the Driver
// itself emits no events.
package emit

// Event is a single observability record emitted during a simulation run.
type Event struct {
	// RunID identifies the simulation run that produced this event.
	RunID string

	// Round is the driver round number the event occurred in. Zero for
	// the source's initial Explore broadcast, which happens before the
	// first round.
	Round int

	// ProcessID identifies the actor that emitted the event.
	ProcessID uint

	// Msg is a short, stable machine-greppable event name, e.g.
	// "relax", "terminate_broadcast", "send_parent_ack".
	Msg string

	// Meta carries event-specific structured data, e.g. {"dist": 3.5,
	// "parent": 2, "epoch": 4}.
	Meta map[string]interface{}
}
