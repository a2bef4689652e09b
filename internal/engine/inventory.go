package engine

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BitBrain19/Cyber/internal/graph"
	"github.com/BitBrain19/Cyber/internal/logger"
	"github.com/BitBrain19/Cyber/pkg/models"
)

// LoadInventory seeds the graph with assets from a JSON inventory file.
// The file holds an array of assets with id, name and risk_tier. Entries
// with invalid identifiers are skipped and counted, not fatal.
func LoadInventory(g *graph.AssetGraph, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read inventory: %w", err)
	}

	var assets []models.Asset
	if err := json.Unmarshal(raw, &assets); err != nil {
		return 0, fmt.Errorf("parse inventory %s: %w", path, err)
	}

	loaded := 0
	for _, asset := range assets {
		if err := g.AddAsset(asset); err != nil {
			logger.Warnf("Skipping inventory entry: %v", err)
			continue
		}
		loaded++
	}
	return loaded, nil
}
