// Package routing implements bidirectional Dijkstra over flat and
// Contraction-Hierarchy graphs, unified behind a single linear-combination
// edge cost, plus shortcut-path flattening.
package routing

import "errors"

var (
	// ErrNoRoute is returned when the forward and backward searches
	// never meet — src and dst are not connected under the given alphas.
	ErrNoRoute = errors.New("routing: no route between src and dst")

	// ErrNegativeAlpha is returned when a supplied alpha weight is
	// negative, which would break the priority-queue ordering invariant.
	ErrNegativeAlpha = errors.New("routing: alpha weights must be non-negative")

	// ErrShortcutCycle is returned by Flatten if shortcut expansion does
	// not terminate within the graph's edge count, indicating a cyclic
	// shortcut reference.
	ErrShortcutCycle = errors.New("routing: cyclic shortcut reference")

	// ErrAlphaDimMismatch is returned when the alpha vector's length
	// does not match the graph's metric dimension.
	ErrAlphaDimMismatch = errors.New("routing: alpha vector dimension mismatch")
)
