package emit

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func TestLogEmitter_TextMode(t *testing.T) {
	var buf strings.Builder
	e := NewLogEmitter(&buf, false)
	e.Emit(Event{RunID: "run-1", Round: 3, ProcessID: 2, Msg: "relax", Meta: map[string]interface{}{"dist": 4.5}})

	out := buf.String()
	if !strings.Contains(out, "round 3") || !strings.Contains(out, "proc 2") || !strings.Contains(out, "relax") {
		t.Fatalf("unexpected text output: %q", out)
	}
}

func TestLogEmitter_JSONMode(t *testing.T) {
	var buf strings.Builder
	e := NewLogEmitter(&buf, true)
	e.Emit(Event{RunID: "run-1", Round: 1, ProcessID: 1, Msg: "terminate"})

	var decoded map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("expected valid JSON line, got %q: %v", line, err)
	}
	if decoded["msg"] != "terminate" {
		t.Fatalf("expected msg=terminate, got %v", decoded["msg"])
	}
}

func TestLogEmitter_EmitBatchPreservesOrder(t *testing.T) {
	var buf strings.Builder
	e := NewLogEmitter(&buf, true)
	events := []Event{{Msg: "first"}, {Msg: "second"}, {Msg: "third"}}
	if err := e.EmitBatch(context.Background(), events); err != nil {
		t.Fatalf("EmitBatch: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, want := range []string{"first", "second", "third"} {
		if !strings.Contains(lines[i], want) {
			t.Fatalf("line %d = %q, want to contain %q", i, lines[i], want)
		}
	}
}

func TestLogEmitter_DefaultsToStdoutWhenNil(t *testing.T) {
	e := NewLogEmitter(nil, false)
	if e.writer == nil {
		t.Fatal("expected writer to default to os.Stdout, got nil")
	}
}

// TestLogEmitter_ConcurrentEmitDoesNotInterleave exercises Emit from
// many goroutines at once, the way every ProcessActor goroutine calls
// a Driver's shared emitter concurrently. Without mu serializing each
// call, concurrent writes to the shared strings.Builder would race and
// could leave a line that doesn't parse back to valid JSON.
func TestLogEmitter_ConcurrentEmitDoesNotInterleave(t *testing.T) {
	var buf strings.Builder
	e := NewLogEmitter(&buf, true)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			e.Emit(Event{RunID: "run-1", Round: i, ProcessID: uint(i), Msg: "relax", Meta: map[string]interface{}{"dist": float64(i)}})
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != goroutines {
		t.Fatalf("expected %d lines, got %d", goroutines, len(lines))
	}
	for _, line := range lines {
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("line did not decode as valid JSON (interleaved write?): %q: %v", line, err)
		}
	}
}
