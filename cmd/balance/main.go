// Command balance runs the iterative traffic-balancing loop over a
// preprocessed graph and a route-pair demand set, writing per-iteration
// stats under the balancing config's results directory.
//
// Exit codes: 0 on success, 1 on any configuration, I/O, or balancing
// failure (including the results directory already existing).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/azybler/pathforge/pkg/balance"
	"github.com/azybler/pathforge/pkg/config"
	"github.com/azybler/pathforge/pkg/graph"
)

func main() {
	os.Exit(run())
}

func run() int {
	graphPath := flag.String("graph", "graph.bin", "Path to preprocessed binary graph")
	parsingPath := flag.String("parsing-config", "", "Path to parsing-config YAML file")
	routingPath := flag.String("routing-config", "", "Path to routing-config YAML file")
	balancingPath := flag.String("balancing-config", "", "Path to balancing-config YAML file")
	flag.Parse()

	if *parsingPath == "" || *routingPath == "" || *balancingPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: balance --graph graph.bin --parsing-config parsing.yaml --routing-config routing.yaml --balancing-config balancing.yaml")
		return 1
	}

	start := time.Now()

	parsingCfg, err := config.LoadParsingConfig(*parsingPath)
	if err != nil {
		log.Printf("Failed to load parsing config: %v", err)
		return 1
	}
	routingCfg, err := config.LoadRoutingConfig(*routingPath, parsingCfg)
	if err != nil {
		log.Printf("Failed to load routing config: %v", err)
		return 1
	}
	balancingCfg, err := config.LoadBalancingConfig(*balancingPath)
	if err != nil {
		log.Printf("Failed to load balancing config: %v", err)
		return 1
	}

	log.Printf("Loading graph from %s...", *graphPath)
	g, err := graph.ReadBinary(*graphPath)
	if err != nil {
		log.Printf("Failed to load graph: %v", err)
		return 1
	}
	log.Printf("Loaded: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	log.Printf("Loading route pairs from %s...", balancingCfg.RoutePairsFile)
	pairs, err := balance.ReadRoutePairs(balancingCfg.RoutePairsFile)
	if err != nil {
		log.Printf("Failed to load route pairs: %v", err)
		return 1
	}
	log.Printf("Loaded %d route pairs", len(pairs))

	b, err := balance.New(g, routingCfg, balancingCfg, pairs)
	if err != nil {
		log.Printf("Failed to construct balancer: %v", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	log.Printf("Running %d iterations over %d workers...", balancingCfg.NumIterations, balancingCfg.NumWorkers)
	stats, err := b.Run(ctx)
	if err != nil {
		log.Printf("Balancing failed after %d iteration(s): %v", len(stats), err)
		return 1
	}

	for _, s := range stats {
		log.Printf("iteration %d: served %d, skipped %d, total_workload %d",
			s.Iteration, s.RoutePairsServed, s.RoutePairsSkipped, s.TotalWorkload)
	}
	log.Printf("Done in %s. Results written to %s", time.Since(start).Round(time.Second), balancingCfg.ResultsDir)
	return 0
}
