package bf

import (
	"testing"
)

func TestMessageChannel_SendReceiveRoundTrip(t *testing.T) {
	ch := NewMessageChannel(1, 2, 5, 1, 0, 0) // zero delay for a deterministic single-poll test

	ch.Send(1, NewExplore(1, 1, 0))
	msg, ok := ch.Receive(2)
	if !ok {
		t.Fatal("expected message delivered to endpoint 2")
	}
	if msg.Sender != 1 || msg.Kind != Explore {
		t.Errorf("unexpected message: %+v", msg)
	}

	if _, ok := ch.Receive(1); ok {
		t.Error("endpoint 1 should not receive its own sent message")
	}
}

func TestMessageChannel_DirectionsAreIndependent(t *testing.T) {
	ch := NewMessageChannel(1, 2, 5, 1, 0, 0)

	ch.Send(1, NewExplore(1, 1, 0))
	ch.Send(2, NewExplore(2, 1, 0))

	m1, ok := ch.Receive(2)
	if !ok || m1.Sender != 1 {
		t.Fatalf("expected endpoint 2 to receive from 1, got ok=%v msg=%+v", ok, m1)
	}
	m2, ok := ch.Receive(1)
	if !ok || m2.Sender != 2 {
		t.Fatalf("expected endpoint 1 to receive from 2, got ok=%v msg=%+v", ok, m2)
	}
}

func TestMessageChannel_CountdownDelaysDelivery(t *testing.T) {
	ch := NewMessageChannel(1, 2, 5, 1, 3, 3) // fixed countdown of 3

	ch.Send(1, NewExplore(1, 1, 0))
	for i := 0; i < 3; i++ {
		if _, ok := ch.Receive(2); ok {
			t.Fatalf("message delivered early on poll %d", i)
		}
	}
	if _, ok := ch.Receive(2); !ok {
		t.Fatal("expected message delivered after countdown exhausted")
	}
}

func TestMessageChannel_EmptyQueueReturnsFalse(t *testing.T) {
	ch := NewMessageChannel(1, 2, 5, 1, 1, 15)
	if _, ok := ch.Receive(1); ok {
		t.Error("expected no message on empty queue")
	}
}

func TestMessageChannel_NormalizesEndpointOrder(t *testing.T) {
	ch := NewMessageChannel(2, 1, 5, 1, 0, 0)
	if ch.Other(1) != 2 || ch.Other(2) != 1 {
		t.Error("expected endpoints normalized regardless of constructor argument order")
	}
}

func TestMessageChannel_Weight(t *testing.T) {
	ch := NewMessageChannel(1, 2, 7.5, 1, 1, 15)
	if ch.Weight() != 7.5 {
		t.Errorf("Weight() = %v, want 7.5", ch.Weight())
	}
}
