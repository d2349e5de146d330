package routing

import "github.com/azybler/pathforge/pkg/graph"

// Path is a src-to-dst route as a sequence of forward EdgeIdx. Costs
// are lazily summed on first access via Costs, mirroring the Rust
// original's Option<DimVec<f64>> deferred-calculation design.
type Path struct {
	SrcIdx graph.NodeIdx
	SrcID  int64
	DstIdx graph.NodeIdx
	DstID  int64
	Edges  []graph.EdgeIdx

	costs []float64
}

// Costs returns the path's per-metric cost vector, computing it on
// first call and caching it thereafter.
func (p *Path) Costs(g *graph.Graph) []float64 {
	if p.costs == nil {
		dim := g.Dim()
		sum := make([]float64, dim)
		for _, e := range p.Edges {
			row := g.EdgeMetrics(e)
			for m := 0; m < dim; m++ {
				sum[m] += row[m]
			}
		}
		p.costs = sum
	}
	return p.costs
}

// Equal reports whether p and other represent the same route (same
// endpoints and edge sequence). Length is compared first since it is
// the cheapest discriminator.
func (p *Path) Equal(other *Path) bool {
	if len(p.Edges) != len(other.Edges) {
		return false
	}
	if p.SrcID != other.SrcID || p.DstID != other.DstID {
		return false
	}
	for i := range p.Edges {
		if p.Edges[i] != other.Edges[i] {
			return false
		}
	}
	return true
}

// Flatten expands every shortcut edge in p into its underlying original
// edges, returning a new Path with no shortcut references and a
// freshly-calculated cost. Expansion uses an explicit stack (the edge
// sequence reversed, popped from the end) rather than recursion, guarded
// against a cyclic shortcut reference by capping total iterations at the
// graph's edge count.
func Flatten(p *Path, g *graph.Graph) (*Path, error) {
	dim := g.Dim()
	flatCosts := make([]float64, dim)

	stack := make([]graph.EdgeIdx, len(p.Edges))
	copy(stack, p.Edges)
	// reverse so src-most edge is at the end (top of stack when popping)
	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}

	out := make([]graph.EdgeIdx, 0, len(p.Edges))
	iterations := 0
	maxIterations := int(g.NumEdges)

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for {
			iterations++
			if iterations > maxIterations {
				return nil, ErrShortcutCycle
			}
			a, b, ok := g.IsShortcut(e)
			if !ok {
				break
			}
			stack = append(stack, b)
			e = a
		}

		out = append(out, e)
		row := g.EdgeMetrics(e)
		for m := 0; m < dim; m++ {
			flatCosts[m] += row[m]
		}
	}

	return &Path{
		SrcIdx: p.SrcIdx,
		SrcID:  p.SrcID,
		DstIdx: p.DstIdx,
		DstID:  p.DstID,
		Edges:  out,
		costs:  flatCosts,
	}, nil
}
