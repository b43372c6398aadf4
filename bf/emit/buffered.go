package emit

import "context"

// BufferedEmitter collects events in memory and hands them to an inner
// Emitter once the buffer reaches capacity or Flush is called. This
// amortizes per-event overhead under heavy-reordering runs with many
// vertices, where every actor emits an event on every relaxation, Parent
// acknowledgement and termination.
type BufferedEmitter struct {
	inner    Emitter
	capacity int

	mu  chan struct{} // binary semaphore; avoids importing sync for one lock
	buf []Event
}

// NewBufferedEmitter wraps inner, batching up to capacity events before
// forwarding via EmitBatch.
func NewBufferedEmitter(inner Emitter, capacity int) *BufferedEmitter {
	if capacity <= 0 {
		capacity = 1
	}
	b := &BufferedEmitter{
		inner:    inner,
		capacity: capacity,
		mu:       make(chan struct{}, 1),
		buf:      make([]Event, 0, capacity),
	}
	b.mu <- struct{}{}
	return b
}

func (b *BufferedEmitter) lock()   { <-b.mu }
func (b *BufferedEmitter) unlock() { b.mu <- struct{}{} }

// Emit appends event to the buffer, flushing if it is now full.
func (b *BufferedEmitter) Emit(event Event) {
	b.lock()
	b.buf = append(b.buf, event)
	full := len(b.buf) >= b.capacity
	b.unlock()
	if full {
		_ = b.Flush(context.Background())
	}
}

// EmitBatch appends every event then flushes immediately; batches from
// callers are assumed already grouped and are forwarded as-is.
func (b *BufferedEmitter) EmitBatch(ctx context.Context, events []Event) error {
	b.lock()
	b.buf = append(b.buf, events...)
	b.unlock()
	return b.Flush(ctx)
}

// Flush forwards everything buffered to the inner Emitter and clears
// the buffer. Safe to call with an empty buffer.
func (b *BufferedEmitter) Flush(ctx context.Context) error {
	b.lock()
	pending := b.buf
	b.buf = make([]Event, 0, b.capacity)
	b.unlock()

	if len(pending) == 0 {
		return nil
	}
	if err := b.inner.EmitBatch(ctx, pending); err != nil {
		return err
	}
	return b.inner.Flush(ctx)
}
