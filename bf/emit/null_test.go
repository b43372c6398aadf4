package emit

import "testing"

func TestNullEmitter_NoOp(t *testing.T) {
	e := NewNullEmitter()
	e.Emit(Event{RunID: "run-1", Round: 1, ProcessID: 2, Msg: "relax"})
	if err := e.EmitBatch(nil, []Event{{Msg: "a"}, {Msg: "b"}}); err != nil {
		t.Fatalf("EmitBatch returned error: %v", err)
	}
	if err := e.Flush(nil); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
}

func TestNullEmitter_InterfaceContract(t *testing.T) {
	var _ Emitter = NewNullEmitter()
}
