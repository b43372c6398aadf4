package emit

import "context"

// NullEmitter discards every event. It is the default for tests that
// only assert on a Driver's returned Result and don't care about the
// diagnostic trail.
type NullEmitter struct{}

// NewNullEmitter returns an Emitter that discards everything it receives.
func NewNullEmitter() *NullEmitter { return &NullEmitter{} }

// Emit discards event.
func (*NullEmitter) Emit(Event) {}

// EmitBatch discards events and always succeeds.
func (*NullEmitter) EmitBatch(context.Context, []Event) error { return nil }

// Flush is a no-op.
func (*NullEmitter) Flush(context.Context) error { return nil }
