package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// LogEmitter writes events to an io.Writer, either as human-readable
// key=value text or as JSON lines. This is the default sink for the CLI.
//
// mu serializes every Emit/EmitBatch call the way the reference
// implementation's mutex_log_ serializes writes from multiple threads:
// every ProcessActor goroutine emits concurrently, emitText issues more
// than one Write per event, and the underlying writer need not be safe
// for concurrent use, so without a lock two goroutines' lines could
// interleave or corrupt each other.
type LogEmitter struct {
	mu       sync.Mutex
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter builds a LogEmitter writing to w (os.Stdout if nil). In
// JSON mode each event is written as one JSON object per line.
func NewLogEmitter(w io.Writer, jsonMode bool) *LogEmitter {
	if w == nil {
		w = os.Stdout
	}
	return &LogEmitter{writer: w, jsonMode: jsonMode}
}

// Emit writes a single event, holding mu for the duration so concurrent
// callers never interleave a single event's output.
func (l *LogEmitter) Emit(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.jsonMode {
		l.emitJSON(event)
		return
	}
	l.emitText(event)
}

func (l *LogEmitter) emitJSON(event Event) {
	data, err := json.Marshal(struct {
		RunID     string                 `json:"runID"`
		Round     int                    `json:"round"`
		ProcessID uint                   `json:"processID"`
		Msg       string                 `json:"msg"`
		Meta      map[string]interface{} `json:"meta,omitempty"`
	}{event.RunID, event.Round, event.ProcessID, event.Msg, event.Meta})
	if err != nil {
		fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogEmitter) emitText(event Event) {
	fmt.Fprintf(l.writer, "[round %d][proc %d] %s", event.Round, event.ProcessID, event.Msg)
	if len(event.Meta) > 0 {
		if metaJSON, err := json.Marshal(event.Meta); err == nil {
			fmt.Fprintf(l.writer, " %s", metaJSON)
		}
	}
	fmt.Fprint(l.writer, "\n")
}

// EmitBatch writes every event in order, holding mu for the whole batch
// so it is never interleaved with another goroutine's Emit/EmitBatch.
func (l *LogEmitter) EmitBatch(_ context.Context, events []Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range events {
		if l.jsonMode {
			l.emitJSON(e)
			continue
		}
		l.emitText(e)
	}
	return nil
}

// Flush is a no-op: LogEmitter writes synchronously with no internal
// buffer. Wrap writer in a bufio.Writer and flush that directly if
// buffering is needed.
func (l *LogEmitter) Flush(context.Context) error { return nil }
