// Package fusion combines anomaly, classification, and graph risk signals
// into one calibrated threat score.
package fusion

import "github.com/BitBrain19/Cyber/pkg/models"

// Fixed fusion weights. Empirically chosen; preserved for behavioral
// compatibility with historical scores.
const (
	AnomalyWeight        = 0.3
	ClassificationWeight = 0.4
	GraphWeight          = 0.3

	// A suspicious classification counts at half the weight of a
	// malicious one.
	suspiciousFactor = 0.5
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClassificationContribution returns the classification signal's share of
// the overall score. Benign contributes nothing regardless of confidence.
func ClassificationContribution(c models.Classification) float64 {
	confidence := clamp01(c.Confidence)
	switch c.Label {
	case models.ClassMalicious:
		return confidence * ClassificationWeight
	case models.ClassSuspicious:
		return confidence * suspiciousFactor * ClassificationWeight
	default:
		return 0
	}
}

// Fuse combines the three signals into an overall score in [0,1].
//
// Pure function: no I/O, no side effects. Inputs are clamped to [0,1]
// first, so increasing any single input never decreases the result.
func Fuse(anomalyScore float64, classification models.Classification, graphRisk float64) float64 {
	score := AnomalyWeight*clamp01(anomalyScore) +
		ClassificationContribution(classification) +
		GraphWeight*clamp01(graphRisk)
	return clamp01(score)
}
