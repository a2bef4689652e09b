// Package lateral turns asset-graph paths into bounded lateral-movement
// risk scores.
package lateral

import (
	"github.com/BitBrain19/Cyber/internal/graph"
	"github.com/BitBrain19/Cyber/pkg/models"
)

const (
	// Normalization scales pathLength*totalWeight so that typical 2-4 hop
	// paths with moderate cumulative weight land mid-range.
	Normalization = 10.0

	// SuspicionThreshold marks a movement as suspicious.
	SuspicionThreshold = 0.7
)

// Scorer computes lateral-movement risk between asset pairs.
type Scorer struct {
	graph *graph.AssetGraph
}

// NewScorer creates a scorer over the given graph.
func NewScorer(g *graph.AssetGraph) *Scorer {
	return &Scorer{graph: g}
}

// Score computes the risk of movement from assetA to assetB.
//
// Absence of a path is informative, not an error: unknown assets, a
// disconnected pair, or a self-pair all yield a zero-valued result. The
// risk grows with both path length and total traversal weight; a long,
// heavily reinforced chain is treated as more exploitable than a single
// strong direct link.
func (s *Scorer) Score(assetA, assetB string) models.LateralMovement {
	if assetA == assetB {
		return models.LateralMovement{Path: []string{}}
	}

	path, totalWeight, err := s.graph.ShortestPath(assetA, assetB)
	if err != nil {
		return models.LateralMovement{Path: []string{}}
	}

	pathLength := len(path) - 1
	if pathLength <= 0 {
		return models.LateralMovement{Path: []string{}}
	}

	riskScore := float64(pathLength) * totalWeight / Normalization
	if riskScore > 1 {
		riskScore = 1
	}

	return models.LateralMovement{
		RiskScore:    riskScore,
		Path:         path,
		PathLength:   pathLength,
		TotalWeight:  totalWeight,
		IsSuspicious: riskScore > SuspicionThreshold,
	}
}
