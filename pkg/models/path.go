package models

import "time"

// LateralMovement is the scored shortest path between two assets.
// A zero-valued result means no path was found; that is informative, not an
// error.
type LateralMovement struct {
	RiskScore    float64  `json:"risk_score"`
	Path         []string `json:"path"`
	PathLength   int      `json:"path_length"`
	TotalWeight  float64  `json:"total_weight"`
	IsSuspicious bool     `json:"is_suspicious"`
}

// AttackPath is one ranked candidate path produced by discovery.
type AttackPath struct {
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	RiskScore    float64  `json:"risk_score"`
	Path         []string `json:"path"`
	PathLength   int      `json:"path_length"`
	TotalWeight  float64  `json:"total_weight"`
	IsSuspicious bool     `json:"is_suspicious"`
}

// DiscoverResult is a ranked attack-path list. Partial is set when the
// caller's deadline expired before every candidate pair was evaluated.
type DiscoverResult struct {
	Paths       []AttackPath `json:"paths"`
	Threshold   float64      `json:"threshold"`
	Partial     bool         `json:"partial"`
	Revision    uint64       `json:"revision"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// GraphStats summarizes the asset graph for health and status reporting.
type GraphStats struct {
	Assets   int    `json:"assets"`
	Edges    int    `json:"edges"`
	Revision uint64 `json:"revision"`
}
