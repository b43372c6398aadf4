package emit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter turns Events into OpenTelemetry spans: one span per event,
// started and ended immediately since every event here represents a
// point in time (a relaxation, an acknowledgement, a termination) rather
// than a duration.
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter builds an Emitter backed by tracer, typically obtained
// via otel.Tracer("asyncbf").
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit starts and immediately ends a span named after event.Msg.
func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Msg)
	defer span.End()
	o.annotate(span, event)
}

func (o *OTelEmitter) annotate(span trace.Span, event Event) {
	span.SetAttributes(
		attribute.String("asyncbf.run_id", event.RunID),
		attribute.Int("asyncbf.round", event.Round),
		attribute.Int64("asyncbf.process_id", int64(event.ProcessID)),
	)
	for k, v := range event.Meta {
		switch val := v.(type) {
		case string:
			span.SetAttributes(attribute.String("asyncbf."+k, val))
		case int:
			span.SetAttributes(attribute.Int("asyncbf."+k, val))
		case int64:
			span.SetAttributes(attribute.Int64("asyncbf."+k, val))
		case float64:
			span.SetAttributes(attribute.Float64("asyncbf."+k, val))
		case bool:
			span.SetAttributes(attribute.Bool("asyncbf."+k, val))
		default:
			span.SetAttributes(attribute.String("asyncbf."+k, fmt.Sprintf("%v", val)))
		}
	}
	if errMsg, ok := event.Meta["error"].(string); ok {
		span.SetStatus(codes.Error, errMsg)
		span.RecordError(fmt.Errorf("%s", errMsg))
	}
}

// EmitBatch emits every event as its own span, in order.
func (o *OTelEmitter) EmitBatch(ctx context.Context, events []Event) error {
	for _, event := range events {
		_, span := o.tracer.Start(ctx, event.Msg)
		o.annotate(span, event)
		span.End()
	}
	return nil
}

// Flush force-flushes the global tracer provider if it supports it
// (the SDK provider does; the no-op default provider does not).
func (o *OTelEmitter) Flush(ctx context.Context) error {
	tp := otel.GetTracerProvider()
	type flusher interface {
		ForceFlush(context.Context) error
	}
	if f, ok := tp.(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}
