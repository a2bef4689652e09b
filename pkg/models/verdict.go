package models

import "time"

// Classification is a discrete threat class with confidence, as produced by
// the external classifier model.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classification labels. Anything else is treated as benign.
const (
	ClassBenign     = "benign"
	ClassSuspicious = "suspicious"
	ClassMalicious  = "malicious"
)

// Verdict is the fused per-event threat assessment returned by Evaluate and
// emitted to verdict sinks.
type Verdict struct {
	EventType      string          `json:"event_type,omitempty"`
	SourceAsset    string          `json:"source_asset,omitempty"`
	TargetAsset    string          `json:"target_asset,omitempty"`
	AnomalyScore   float64         `json:"anomaly_score"`
	Classification Classification  `json:"classification"`
	GraphRisk      float64         `json:"graph_risk"`
	Movement       LateralMovement `json:"movement,omitempty"`
	OverallScore   float64         `json:"overall_score"`
	Alert          bool            `json:"alert"`
	Degraded       bool            `json:"degraded,omitempty"`
	IoaTags        []IoaTag        `json:"ioa_tags,omitempty"`
	EvaluatedAt    time.Time       `json:"evaluated_at"`
}
