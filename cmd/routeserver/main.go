// Command routeserver loads a preprocessed binary graph and a routing
// config, then serves the pkg/api HTTP surface over it.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/azybler/pathforge/pkg/api"
	"github.com/azybler/pathforge/pkg/config"
	"github.com/azybler/pathforge/pkg/graph"
	"github.com/azybler/pathforge/pkg/routing"
)

func main() {
	graphPath := flag.String("graph", "graph.bin", "Path to preprocessed binary graph")
	parsingPath := flag.String("parsing-config", "", "Path to parsing-config YAML file")
	routingPath := flag.String("routing-config", "", "Path to routing-config YAML file")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	if *parsingPath == "" || *routingPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: routeserver --graph graph.bin --parsing-config parsing.yaml --routing-config routing.yaml [--port 8080] [--cors-origin origin]")
		os.Exit(1)
	}

	start := time.Now()

	parsingCfg, err := config.LoadParsingConfig(*parsingPath)
	if err != nil {
		log.Fatalf("Failed to load parsing config: %v", err)
	}
	routingCfg, err := config.LoadRoutingConfig(*routingPath, parsingCfg)
	if err != nil {
		log.Fatalf("Failed to load routing config: %v", err)
	}

	log.Printf("Loading graph from %s...", *graphPath)
	g, err := graph.ReadBinary(*graphPath)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d edges, contracted=%v", g.NumNodes, g.NumEdges, g.IsContracted())

	log.Println("Building spatial index...")
	engine := routing.NewEngine(g)

	// The R-tree and per-node adjacency built above are the only large
	// live allocations this process needs going forward; reclaim the
	// parse-time and CH-build-time garbage before settling into steady
	// state so peak RSS doesn't linger at its construction-time high
	// water mark.
	runtime.GC()
	debug.FreeOSMemory()

	log.Printf("Ready in %s", time.Since(start).Round(time.Millisecond))

	metricNames := make([]string, len(g.Metrics))
	for i, m := range g.Metrics {
		metricNames[i] = m.Name
	}
	stats := api.StatsResponse{
		NumNodes: g.NumNodes,
		NumEdges: g.NumEdges,
		Metrics:  metricNames,
	}

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	handlers := api.NewHandlers(engine, routingCfg.Alphas, stats)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
