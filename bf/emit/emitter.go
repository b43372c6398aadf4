package emit

import "context"

// Emitter receives observability events from a simulation run.
//
// Implementations must be safe for concurrent use: every ProcessActor
// goroutine may call Emit concurrently. Emit must
// not block the caller for long — the countdown-delay delivery model
// already stresses round latency, and a slow sink should not distort it.
type Emitter interface {
	// Emit records a single event.
	Emit(event Event)

	// EmitBatch records multiple events in one call, preserving order.
	// Returns an error only on catastrophic, non-per-event failures.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until any buffered events have been handed to the
	// underlying sink. Safe to call multiple times.
	Flush(ctx context.Context) error
}
