// Command buildgraph turns an OSM extract or an FMI text graph into
// the binary graph artifact cmd/routeserver and cmd/balance load,
// optionally running Contraction-Hierarchy preprocessing first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/azybler/pathforge/pkg/ch"
	"github.com/azybler/pathforge/pkg/config"
	"github.com/azybler/pathforge/pkg/fmi"
	"github.com/azybler/pathforge/pkg/graph"
	"github.com/azybler/pathforge/pkg/osmimport"
)

func main() {
	parsingPath := flag.String("parsing-config", "", "Path to parsing-config YAML file")
	routingPath := flag.String("routing-config", "", "Path to routing-config YAML file (required with -contract)")
	output := flag.String("output", "graph.bin", "Output binary graph file path")
	bbox := flag.String("bbox", "", "Bounding box filter for OSM input: minLat,maxLat,minLng,maxLng")
	contract := flag.Bool("contract", false, "Run Contraction-Hierarchy preprocessing before writing")
	coreSize := flag.Int("core-size", 100, "Minimum remaining core size before CH contraction stops early")
	flag.Parse()

	if *parsingPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: buildgraph --parsing-config parsing.yaml [--routing-config routing.yaml --contract] [--output graph.bin] [--bbox minLat,maxLat,minLng,maxLng]")
		os.Exit(1)
	}

	start := time.Now()

	log.Printf("Loading parsing config from %s...", *parsingPath)
	parsingCfg, err := config.LoadParsingConfig(*parsingPath)
	if err != nil {
		log.Fatalf("Failed to load parsing config: %v", err)
	}

	g, err := buildFromSource(parsingCfg, *bbox)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}
	log.Printf("Parsed: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	log.Println("Extracting largest connected component...")
	component := g.LargestComponent()
	g = g.FilterToComponent(component)
	log.Printf("Filtered graph: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	if *contract {
		if *routingPath == "" {
			log.Fatal("--contract requires --routing-config to supply the alpha weights to contract for")
		}
		log.Printf("Loading routing config from %s...", *routingPath)
		routingCfg, err := config.LoadRoutingConfig(*routingPath, parsingCfg)
		if err != nil {
			log.Fatalf("Failed to load routing config: %v", err)
		}
		log.Println("Running Contraction Hierarchy preprocessing...")
		g, err = ch.Contract(g, routingCfg.Alphas, *coreSize)
		if err != nil {
			log.Fatalf("Failed to contract graph: %v", err)
		}
		log.Printf("Contracted: %d nodes, %d edges", g.NumNodes, g.NumEdges)
	}

	log.Printf("Writing binary to %s...", *output)
	if err := graph.WriteBinary(g, *output); err != nil {
		log.Fatalf("Failed to write binary: %v", err)
	}

	info, _ := os.Stat(*output)
	log.Printf("Done in %s. Output: %s (%.1f MB)", time.Since(start).Round(time.Second), *output, float64(info.Size())/(1024*1024))
}

// buildFromSource dispatches to the OSM PBF importer or the FMI reader
// based on the parsing config's declared map file extension.
func buildFromSource(cfg *config.ParsingConfig, bboxFlag string) (*graph.Graph, error) {
	f, err := os.Open(cfg.MapFile)
	if err != nil {
		return nil, fmt.Errorf("open map file: %w", err)
	}
	defer f.Close()

	lower := strings.ToLower(cfg.MapFile)
	switch {
	case strings.HasSuffix(lower, ".osm.pbf") || strings.HasSuffix(lower, ".pbf"):
		var opts osmimport.Options
		if bboxFlag != "" {
			var minLat, maxLat, minLng, maxLng float64
			if _, err := fmt.Sscanf(bboxFlag, "%f,%f,%f,%f", &minLat, &maxLat, &minLng, &maxLng); err != nil {
				return nil, fmt.Errorf("invalid bbox (expected minLat,maxLat,minLng,maxLng): %w", err)
			}
			opts.BBox = osmimport.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
			log.Printf("Using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", minLat, maxLat, minLng, maxLng)
		}
		return osmimport.Parse(context.Background(), f, cfg, opts)
	case strings.HasSuffix(lower, ".fmi") || strings.HasSuffix(lower, ".txt"):
		return fmi.ReadGraph(f, cfg)
	default:
		return nil, fmt.Errorf("map file %q: unrecognized extension, expected .osm.pbf or .fmi", cfg.MapFile)
	}
}
