package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BitBrain19/Cyber/internal/engine"
	"github.com/BitBrain19/Cyber/internal/graph"
	"github.com/BitBrain19/Cyber/internal/lateral"
	"github.com/BitBrain19/Cyber/internal/logger"
	"github.com/BitBrain19/Cyber/internal/output/pathjson"
	"github.com/BitBrain19/Cyber/internal/pathfinder"
	"github.com/BitBrain19/Cyber/internal/transform/seclog"
	"github.com/BitBrain19/Cyber/pkg/models"
)

func run() int {
	input := flag.String("input", "output/events.jsonl", "Security event JSONL input path")
	inventory := flag.String("inventory", "", "Optional JSON asset inventory path")
	output := flag.String("output", "output/attack_paths.jsonl", "Attack path JSONL output path")
	threshold := flag.Float64("threshold", 0.5, "Minimum risk score for reported paths")
	timeout := flag.Duration("timeout", 0, "Optional scan deadline (0 disables)")
	verbose := flag.Bool("verbose", false, "Enable debug logging to stderr")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(true, level, "", true); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}

	assetGraph := graph.New()
	if strings.TrimSpace(*inventory) != "" {
		loaded, err := engine.LoadInventory(assetGraph, *inventory)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load inventory: %v\n", err)
			return 1
		}
		logger.Infof("Inventory loaded: %d assets", loaded)
	}

	events, skipped, err := loadEvents(assetGraph, *input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load events: %v\n", err)
		return 1
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	finder := pathfinder.NewFinder(assetGraph, lateral.NewScorer(assetGraph))
	result := finder.Discover(ctx, *threshold)

	writer, err := pathjson.NewWriter(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output writer: %v\n", err)
		return 1
	}
	defer writer.Close()

	rows := make([]*models.AttackPath, 0, len(result.Paths))
	for i := range result.Paths {
		rows = append(rows, &result.Paths[i])
	}
	if err := writer.WritePaths(rows); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write attack paths: %v\n", err)
		return 1
	}

	stats := assetGraph.Stats()
	status := "complete"
	if result.Partial {
		status = "partial (deadline hit)"
	}
	fmt.Printf("scanned events=%d skipped=%d assets=%d edges=%d paths=%d threshold=%g status=%s output=%s\n",
		events, skipped, stats.Assets, stats.Edges, len(result.Paths), *threshold, status, *output)
	return 0
}

func loadEvents(g *graph.AssetGraph, path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	loaded := 0
	skipped := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		event, err := seclog.Parse([]byte(line))
		if err != nil {
			logger.Warnf("Skipping malformed event: %v", err)
			skipped++
			continue
		}
		if !event.HasAssetPair() {
			skipped++
			continue
		}
		if err := g.AddObservation(event.SourceAsset, event.TargetAsset, event.ConnectionType, event.Weight); err != nil {
			logger.Warnf("Skipping observation: %v", err)
			skipped++
			continue
		}
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, skipped, err
	}
	return loaded, skipped, nil
}

func main() {
	os.Exit(run())
}
