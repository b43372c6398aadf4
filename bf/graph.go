package bf

import (
	"fmt"
	"math/rand"
)

// ConnectivityMatrix is a square matrix where entry [i][j] is the weight
// of the edge between vertices (i+1) and (j+1), or -1 meaning no edge.
// The matrix is 0-indexed; ProcessIDs are 1-based.
type ConnectivityMatrix [][]int

// NoEdge is the sentinel weight meaning "no edge between these vertices".
const NoEdge = -1

// Validate checks the structural invariants spec.md §3 assumes but does
// not require an implementation to enforce: square, symmetric on
// presence and weight, -1 diagonal, and strictly positive weights
// elsewhere. NewDriver always runs it before building the channel graph
// (see SPEC_FULL.md §8's Open Question decision); it does not check that
// the graph is connected.
func (m ConnectivityMatrix) Validate(root ProcessID) error {
	n := len(m)
	if n == 0 {
		return fmt.Errorf("%w: empty matrix", ErrInvalidGraph)
	}
	if int(root) < 1 || int(root) > n {
		return fmt.Errorf("%w: root %d out of range [1,%d]", ErrInvalidGraph, root, n)
	}
	for i := range m {
		if len(m[i]) != n {
			return fmt.Errorf("%w: row %d has %d entries, want %d", ErrInvalidGraph, i, len(m[i]), n)
		}
	}
	for i := 0; i < n; i++ {
		if m[i][i] != NoEdge {
			return fmt.Errorf("%w: diagonal entry (%d,%d) must be -1, got %d", ErrInvalidGraph, i, i, m[i][i])
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if m[i][j] != m[j][i] {
				return fmt.Errorf("%w: asymmetric entries (%d,%d)=%d (%d,%d)=%d", ErrInvalidGraph, i, j, m[i][j], j, i, m[j][i])
			}
			if m[i][j] != NoEdge && m[i][j] <= 0 {
				return fmt.Errorf("%w: non-positive edge weight (%d,%d)=%d", ErrInvalidGraph, i, j, m[i][j])
			}
		}
	}
	return nil
}

// BuildChannels constructs one MessageChannel per undirected edge,
// sharing a single channel object between both endpoints' neighbor
// lists, mirroring the reference implementation's
// `channels_.at(i).at(j) = channels_.at(j).at(i)` aliasing. Returns, per
// ProcessID, the ordered list of incident channels and the neighbor
// ProcessID reachable through each.
//
// rng draws one per-channel seed at construction time, before any actor
// goroutine starts: each MessageChannel gets its own private *rand.Rand
// seeded from that draw, so concurrent Sends on different edges never
// share generator state (see NewMessageChannel). Drawing every seed from
// the single driver-level rng up front, in matrix order, keeps the whole
// graph's delay sequence deterministic from one seed, preserving
// Testable Property 6 (delay invariance).
func BuildChannels(m ConnectivityMatrix, rng *rand.Rand, delayMin, delayMax int) (channels map[ProcessID][]*MessageChannel, peers map[ProcessID][]ProcessID) {
	n := len(m)
	channels = make(map[ProcessID][]*MessageChannel, n)
	peers = make(map[ProcessID][]ProcessID, n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m[i][j] == NoEdge {
				continue
			}
			a, b := ProcessID(i+1), ProcessID(j+1)
			ch := NewMessageChannel(a, b, float64(m[i][j]), rng.Int63(), delayMin, delayMax)
			channels[a] = append(channels[a], ch)
			peers[a] = append(peers[a], b)
			channels[b] = append(channels[b], ch)
			peers[b] = append(peers[b], a)
		}
	}
	return channels, peers
}
