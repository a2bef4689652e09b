package models

import "strings"

// RiskTier is the coarse risk classification of an asset.
type RiskTier int

const (
	TierLow RiskTier = iota
	TierMedium
	TierHigh
	TierCritical
)

// ParseRiskTier maps a tier name to a RiskTier. Unknown values map to low.
func ParseRiskTier(s string) RiskTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return TierCritical
	case "high":
		return TierHigh
	case "medium":
		return TierMedium
	default:
		return TierLow
	}
}

// String returns the tier name.
func (t RiskTier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "low"
	}
}

// Elevated reports whether the tier qualifies an asset as an attack-path
// discovery candidate.
func (t RiskTier) Elevated() bool {
	return t >= TierHigh
}

// MarshalText implements encoding.TextMarshaler.
func (t RiskTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *RiskTier) UnmarshalText(data []byte) error {
	*t = ParseRiskTier(string(data))
	return nil
}

// Asset is a monitored entity (host, account, service) identified by a
// stable ID.
type Asset struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	RiskTier RiskTier `json:"risk_tier"`
}
