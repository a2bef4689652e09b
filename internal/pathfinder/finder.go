// Package pathfinder discovers and ranks candidate attack paths across the
// whole asset population.
package pathfinder

import (
	"context"
	"sort"
	"time"

	"github.com/BitBrain19/Cyber/internal/graph"
	"github.com/BitBrain19/Cyber/internal/lateral"
	"github.com/BitBrain19/Cyber/pkg/models"
)

// Finder enumerates risk-qualifying paths between asset pairs.
//
// Discovery is quadratic in the candidate count times shortest-path cost;
// it is the most expensive operation in the engine. Callers are expected to
// consult the score cache first and to narrow the candidate set (for
// example to elevated-risk-tier assets) before invoking it.
type Finder struct {
	graph  *graph.AssetGraph
	scorer *lateral.Scorer
	now    func() time.Time
}

// NewFinder creates a finder over the given graph.
func NewFinder(g *graph.AssetGraph, scorer *lateral.Scorer) *Finder {
	return &Finder{graph: g, scorer: scorer, now: time.Now}
}

// Discover evaluates every unordered pair of known assets and returns the
// paths whose risk score exceeds riskThreshold, ordered descending by
// score. The asset list is snapshotted up front so concurrent observation
// writes do not grow the iteration space underneath the scan.
func (f *Finder) Discover(ctx context.Context, riskThreshold float64) models.DiscoverResult {
	return f.DiscoverAmong(ctx, riskThreshold, f.graph.Assets())
}

// DiscoverAmong is Discover restricted to an explicit candidate set.
//
// The context deadline is checked between pair evaluations; when it
// expires the ranked list gathered so far is returned with Partial set,
// which is not an error from the caller's perspective.
func (f *Finder) DiscoverAmong(ctx context.Context, riskThreshold float64, candidates []string) models.DiscoverResult {
	result := models.DiscoverResult{
		Threshold:   riskThreshold,
		Revision:    f.graph.Revision(),
		GeneratedAt: f.now(),
	}

	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

scan:
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if ctx.Err() != nil {
				result.Partial = true
				break scan
			}

			source, target := sorted[i], sorted[j]
			movement := f.scorer.Score(source, target)
			if movement.RiskScore <= riskThreshold {
				continue
			}
			result.Paths = append(result.Paths, models.AttackPath{
				Source:       source,
				Target:       target,
				RiskScore:    movement.RiskScore,
				Path:         movement.Path,
				PathLength:   movement.PathLength,
				TotalWeight:  movement.TotalWeight,
				IsSuspicious: movement.IsSuspicious,
			})
		}
	}

	sort.SliceStable(result.Paths, func(i, j int) bool {
		a, b := result.Paths[i], result.Paths[j]
		if a.RiskScore != b.RiskScore {
			return a.RiskScore > b.RiskScore
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Target < b.Target
	})

	return result
}
