package routing

import (
	"context"
	"fmt"
	"math"

	"github.com/azybler/pathforge/pkg/graph"
)

// QueryState holds all per-query mutable state for a bidirectional
// Dijkstra run: distance and predecessor-edge arrays for both
// directions, a touched-node list for O(touched) reset between queries
// (the teacher's sync.Pool-friendly pattern), and the two priority
// queues. Reusable across queries via Reset.
type QueryState struct {
	g *graph.Graph

	distFwd []float64
	distBwd []float64

	// predEdgeFwd[v] is the forward EdgeIdx (u -> v) the forward search
	// relaxed v through; predEdgeBwd[v] is the forward EdgeIdx (v -> w)
	// the backward search relaxed v through. Both default to
	// graph.InvalidEdge. Storing edges rather than predecessor nodes
	// (the original Rust implementation's choice) lets path
	// reconstruction build the edge sequence directly.
	predEdgeFwd []graph.EdgeIdx
	predEdgeBwd []graph.EdgeIdx

	touchedFwd []graph.NodeIdx
	touchedBwd []graph.NodeIdx

	fwdPQ *MinHeap
	bwdPQ *MinHeap
}

// NewQueryState allocates a QueryState sized for g. Intended to be
// pooled (e.g. via sync.Pool) and reused across many queries.
func NewQueryState(g *graph.Graph) *QueryState {
	n := int(g.NumNodes)
	qs := &QueryState{
		g:           g,
		distFwd:     make([]float64, n),
		distBwd:     make([]float64, n),
		predEdgeFwd: make([]graph.EdgeIdx, n),
		predEdgeBwd: make([]graph.EdgeIdx, n),
		fwdPQ:       NewMinHeap(64),
		bwdPQ:       NewMinHeap(64),
	}
	for i := 0; i < n; i++ {
		qs.distFwd[i] = posInf
		qs.distBwd[i] = posInf
		qs.predEdgeFwd[i] = graph.InvalidEdge
		qs.predEdgeBwd[i] = graph.InvalidEdge
	}
	return qs
}

// reset clears only the nodes touched by the previous query, not the
// whole array — O(touched) instead of O(NumNodes) per query.
func (qs *QueryState) reset() {
	for _, n := range qs.touchedFwd {
		qs.distFwd[n] = posInf
		qs.predEdgeFwd[n] = graph.InvalidEdge
	}
	for _, n := range qs.touchedBwd {
		qs.distBwd[n] = posInf
		qs.predEdgeBwd[n] = graph.InvalidEdge
	}
	qs.touchedFwd = qs.touchedFwd[:0]
	qs.touchedBwd = qs.touchedBwd[:0]
	qs.fwdPQ.Reset()
	qs.bwdPQ.Reset()
}

func (qs *QueryState) touchFwd(n graph.NodeIdx) {
	if math.IsInf(qs.distFwd[n], 1) {
		qs.touchedFwd = append(qs.touchedFwd, n)
	}
}

func (qs *QueryState) touchBwd(n graph.NodeIdx) {
	if math.IsInf(qs.distBwd[n], 1) {
		qs.touchedBwd = append(qs.touchedBwd, n)
	}
}

// ComputeBestPath runs bidirectional Dijkstra from src to dst under the
// linear-combination cost c(e) = sum_m alphas[m]*metric(e,m), unified
// across flat and CH graphs: on a CH graph, relaxation stops scanning a
// node's forward-sorted adjacency list as soon as it reaches an edge
// whose target level is below the current node's level (same-level
// targets are still relaxed), since edges are stored level-descending.
func ComputeBestPath(ctx context.Context, qs *QueryState, src, dst graph.NodeIdx, alphas []float64) (*Path, error) {
	g := qs.g
	if len(alphas) != g.Dim() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrAlphaDimMismatch, len(alphas), g.Dim())
	}
	for _, a := range alphas {
		if a < 0 {
			return nil, ErrNegativeAlpha
		}
	}

	qs.reset()

	qs.distFwd[src] = 0
	qs.touchFwd(src)
	qs.fwdPQ.Push(src, 0)

	qs.distBwd[dst] = 0
	qs.touchBwd(dst)
	qs.bwdPQ.Push(dst, 0)

	mu := posInf
	meetNode := graph.InvalidNode
	contracted := g.IsContracted()

	iterations := 0
	for qs.fwdPQ.Len() > 0 || qs.bwdPQ.Len() > 0 {
		iterations++
		if iterations%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fwdMin := qs.fwdPQ.PeekDist()
		bwdMin := qs.bwdPQ.PeekDist()
		if fwdMin >= mu && bwdMin >= mu {
			break
		}

		if fwdMin <= bwdMin && qs.fwdPQ.Len() > 0 {
			u, d := qs.fwdPQ.Pop()
			if approxCmp(d, qs.distFwd[u]) != 0 {
				continue // stale entry
			}
			if !math.IsInf(qs.distBwd[u], 1) {
				if cand := d + qs.distBwd[u]; cand < mu {
					mu, meetNode = cand, u
				}
			}
			qs.relaxForward(u, d, alphas, contracted)
		} else if qs.bwdPQ.Len() > 0 {
			u, d := qs.bwdPQ.Pop()
			if approxCmp(d, qs.distBwd[u]) != 0 {
				continue
			}
			if !math.IsInf(qs.distFwd[u], 1) {
				if cand := qs.distFwd[u] + d; cand < mu {
					mu, meetNode = cand, u
				}
			}
			qs.relaxBackward(u, d, alphas, contracted)
		} else {
			break
		}
	}

	if meetNode == graph.InvalidNode {
		return nil, ErrNoRoute
	}

	return qs.reconstruct(src, dst, meetNode)
}

func (qs *QueryState) relaxForward(u graph.NodeIdx, du float64, alphas []float64, contracted bool) {
	g := qs.g
	uLevel := uint32(0)
	if contracted {
		uLevel = g.NodeLevel[u]
	}
	start, end := g.EdgesFrom(u)
	for i := start; i < end; i++ {
		e := graph.EdgeIdx(i)
		v := g.FwdDst(e)
		if contracted && g.NodeLevel[v] < uLevel {
			break // edges are level-descending: nothing past here qualifies
		}
		nd := du + g.LinearCost(e, alphas)
		if nd < qs.distFwd[v] {
			qs.touchFwd(v)
			qs.distFwd[v] = nd
			qs.predEdgeFwd[v] = e
			qs.fwdPQ.Push(v, nd)
		}
	}
}

func (qs *QueryState) relaxBackward(u graph.NodeIdx, du float64, alphas []float64, contracted bool) {
	g := qs.g
	uLevel := uint32(0)
	if contracted {
		uLevel = g.NodeLevel[u]
	}
	start, end := g.EdgesInto(u)
	for i := start; i < end; i++ {
		p := g.BwdHead[i]
		if contracted && g.NodeLevel[p] < uLevel {
			break
		}
		fwdEdge := g.BwdToFwd[i]
		nd := du + g.LinearCost(fwdEdge, alphas)
		if nd < qs.distBwd[p] {
			qs.touchBwd(p)
			qs.distBwd[p] = nd
			qs.predEdgeBwd[p] = fwdEdge
			qs.bwdPQ.Push(p, nd)
		}
	}
}

func (qs *QueryState) reconstruct(src, dst, meet graph.NodeIdx) (*Path, error) {
	g := qs.g

	var prefix []graph.EdgeIdx
	cur := meet
	for cur != src {
		e := qs.predEdgeFwd[cur]
		if e == graph.InvalidEdge {
			return nil, ErrNoRoute
		}
		prefix = append(prefix, e)
		cur = g.FwdSrc(e)
	}
	for i, j := 0, len(prefix)-1; i < j; i, j = i+1, j-1 {
		prefix[i], prefix[j] = prefix[j], prefix[i]
	}

	var suffix []graph.EdgeIdx
	cur = meet
	for cur != dst {
		e := qs.predEdgeBwd[cur]
		if e == graph.InvalidEdge {
			return nil, ErrNoRoute
		}
		suffix = append(suffix, e)
		cur = g.FwdDst(e)
	}

	edges := append(prefix, suffix...)
	return &Path{
		SrcIdx: src,
		SrcID:  g.NodeID[src],
		DstIdx: dst,
		DstID:  g.NodeID[dst],
		Edges:  edges,
	}, nil
}
