package balance

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/azybler/pathforge/pkg/config"
	"github.com/azybler/pathforge/pkg/explorator"
	"github.com/azybler/pathforge/pkg/graph"
	"github.com/azybler/pathforge/pkg/routing"
)

// Balancer runs the iterative traffic-redistribution loop of spec
// §4.5 over a fixed graph and route-pair demand set, grounded on
// original_source/src/bin/balancer.rs's per-iteration parse-route-
// explore-pick loop, generalized from a single-threaded Rust binary
// into a worker-pool pipeline whose aggregation step (summing route
// counts into a per-edge workload array) is commutative, so per-route-
// pair work can run concurrently without breaking the seed-determinism
// invariant.
type Balancer struct {
	g         *graph.Graph
	routing   *config.RoutingConfig
	balancing *config.BalancingConfig
	pairs     []RoutePair

	workloadIdx int
	nodeIdx     map[int64]graph.NodeIdx
}

// New constructs a Balancer, resolving the configured workload metric
// id against the graph's metric columns.
func New(g *graph.Graph, routingCfg *config.RoutingConfig, balancingCfg *config.BalancingConfig, pairs []RoutePair) (*Balancer, error) {
	workloadIdx := g.MetricIndexOf(balancingCfg.WorkloadMetricID)
	if workloadIdx == -1 {
		return nil, fmt.Errorf("%q: %w", balancingCfg.WorkloadMetricID, ErrNoWorkloadMetric)
	}
	nodeIdx := make(map[int64]graph.NodeIdx, g.NumNodes)
	for i, id := range g.NodeID {
		nodeIdx[id] = graph.NodeIdx(i)
	}
	return &Balancer{
		g:           g,
		routing:     routingCfg,
		balancing:   balancingCfg,
		pairs:       pairs,
		workloadIdx: workloadIdx,
		nodeIdx:     nodeIdx,
	}, nil
}

// IterationStats summarizes one balancer iteration for results_dir
// reporting.
type IterationStats struct {
	Iteration         int
	RoutePairsServed  int
	RoutePairsSkipped int
	TotalWorkload     int64
}

// Run executes NumIterations rounds, mutating the graph's workload
// metric column in place between rounds, and returns per-iteration
// stats in order.
func (b *Balancer) Run(ctx context.Context) ([]IterationStats, error) {
	allStats := make([]IterationStats, 0, b.balancing.NumIterations)

	for i := 0; i < b.balancing.NumIterations; i++ {
		if err := ctx.Err(); err != nil {
			return allStats, err
		}

		alphas := append([]float64(nil), b.routing.Alphas...)
		if i == 0 {
			alphas[b.workloadIdx] = 0 // first round explores the unloaded graph
		} else {
			alphas[b.workloadIdx] = 1 // later rounds prefer uncongested edges
		}
		considered := nonzeroIndices(alphas)

		nextWorkload := make([]int64, b.g.NumEdges)
		stats := IterationStats{Iteration: i}

		if err := b.runRoutePairs(ctx, i, alphas, considered, nextWorkload, &stats); err != nil {
			return allStats, err
		}

		values := make([]float64, len(nextWorkload))
		var total int64
		for e, v := range nextWorkload {
			values[e] = float64(v)
			total += v
		}
		stats.TotalWorkload = total
		b.g.SetMetricColumn(b.workloadIdx, values)

		if err := writeIterationStats(b.balancing.ResultsDir, stats); err != nil {
			return allStats, err
		}
		allStats = append(allStats, stats)
	}

	return allStats, nil
}

func (b *Balancer) runRoutePairs(ctx context.Context, iteration int, alphas []float64, considered []int, nextWorkload []int64, stats *IterationStats) error {
	workers := b.balancing.NumWorkers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int, len(b.pairs))
	for j := range b.pairs {
		jobs <- j
	}
	close(jobs)

	var wg sync.WaitGroup
	var served, skipped int64
	var firstErr error
	var errOnce sync.Once

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			qs := routing.NewQueryState(b.g)
			for j := range jobs {
				ok, err := b.serveRoutePair(ctx, qs, iteration, j, alphas, considered, nextWorkload)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
				if ok {
					atomic.AddInt64(&served, 1)
				} else {
					atomic.AddInt64(&skipped, 1)
				}
			}
		}()
	}
	wg.Wait()

	stats.RoutePairsServed = int(served)
	stats.RoutePairsSkipped = int(skipped)
	return firstErr
}

// serveRoutePair resolves one demand record into `count` candidate-
// path selections accumulated into nextWorkload, returning ok=false
// (not an error) when no candidate path could be found at all.
func (b *Balancer) serveRoutePair(ctx context.Context, qs *routing.QueryState, iteration, pairIdx int, alphas []float64, considered []int, nextWorkload []int64) (bool, error) {
	pair := b.pairs[pairIdx]
	src, ok := b.nodeIdx[pair.SrcID]
	if !ok {
		return false, nil
	}
	dst, ok := b.nodeIdx[pair.DstID]
	if !ok {
		return false, nil
	}

	var candidates []explorator.Result
	if len(considered) == 0 {
		p, err := routing.ComputeBestPath(ctx, qs, src, dst, alphas)
		if err != nil {
			return false, nil
		}
		flat, err := routing.Flatten(p, b.g)
		if err != nil {
			return false, err
		}
		candidates = []explorator.Result{{Path: flat, Alpha: alphas}}
	} else {
		bestSingle := make([]float64, b.g.Dim())
		for _, m := range considered {
			single := make([]float64, b.g.Dim())
			single[m] = 1
			p, err := routing.ComputeBestPath(ctx, qs, src, dst, single)
			if err != nil {
				return false, nil
			}
			bestSingle[m] = p.Costs(b.g)[m]
		}
		tolerances := explorator.TolerancesFromScales(b.g, b.routing.ToleratedScales, bestSingle)
		q, err := explorator.NewQuery(b.g.Dim(), considered, tolerances)
		if err != nil {
			return false, err
		}
		results, err := explorator.FullyExplorate(ctx, qs, b.g, src, dst, q)
		if err != nil {
			return false, err
		}
		candidates = results
	}

	if len(candidates) == 0 {
		return false, nil
	}

	rng := rand.New(rand.NewPCG(b.balancing.Seed, routePairStreamSalt(iteration, pairIdx)))
	for k := 0; k < pair.Count; k++ {
		choice := candidates[rng.IntN(len(candidates))]
		for _, e := range choice.Path.Edges {
			atomic.AddInt64(&nextWorkload[e], 1)
		}
	}
	return true, nil
}

// routePairStreamSalt derives a per-(iteration, route-pair) PRNG
// sub-seed from the balancer's configured seed, so each route-pair's
// random path selection is reproducible independent of which worker
// goroutine happens to process it.
func routePairStreamSalt(iteration, pairIdx int) uint64 {
	return uint64(iteration)*1_000_003 + uint64(pairIdx)
}

func nonzeroIndices(alphas []float64) []int {
	var out []int
	for i, a := range alphas {
		if a != 0 {
			out = append(out, i)
		}
	}
	return out
}
