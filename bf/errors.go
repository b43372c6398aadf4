package bf

import "errors"

// ErrNoProgress is returned by a Driver configured with WithMaxRounds when
// the round cap is reached before every actor exits. It is a diagnostic
// guard against a malformed or disconnected graph, not part of the
// algorithm's own termination argument: on a finite, connected,
// positive-weight graph the Driver always converges without it.
var ErrNoProgress = errors.New("bf: max rounds reached without every actor exiting")

// ErrInvalidGraph wraps a failure of the defensive connectivity-matrix
// validation pass that NewDriver always runs (asymmetric matrix,
// non-positive weight, out-of-range root).
var ErrInvalidGraph = errors.New("bf: invalid connectivity graph")
