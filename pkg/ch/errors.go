// Package ch builds Contraction-Hierarchy shortcuts and node levels on
// top of an uncontracted graph.Graph, producing a graph ready for
// bidirectional CH Dijkstra. Out of the core routing/explorator/balance
// scope, but kept and adapted as real supporting infrastructure rather
// than deleted, since the teacher's own CH preprocessing is one of its
// central components.
package ch

import "errors"

// ErrEmptyGraph is returned by Contract when given a graph with no nodes.
var ErrEmptyGraph = errors.New("ch: cannot contract an empty graph")
