package models

import (
	"fmt"
	"time"
)

// SecurityEvent is a normalized per-event signal: an access log line, a
// network flow, or an authentication event.
type SecurityEvent struct {
	Timestamp      time.Time              `json:"timestamp"`
	EventType      string                 `json:"event_type"`
	SourceAsset    string                 `json:"source_asset,omitempty"`
	TargetAsset    string                 `json:"target_asset,omitempty"`
	ConnectionType string                 `json:"connection_type,omitempty"`
	Weight         float64                `json:"weight,omitempty"`
	SourceIP       string                 `json:"source_ip,omitempty"`
	Severity       string                 `json:"severity,omitempty"`
	RecordID       string                 `json:"record_id,omitempty"`
	Fields         map[string]interface{} `json:"fields,omitempty"`
	IoaTags        []IoaTag               `json:"ioa_tags,omitempty"`

	Raw map[string]interface{} `json:"-"`
}

// HasAssetPair reports whether the event names both endpoints of an
// asset-to-asset interaction.
func (e *SecurityEvent) HasAssetPair() bool {
	return e != nil && e.SourceAsset != "" && e.TargetAsset != ""
}

// Field returns a field value rendered as a string.
func (e *SecurityEvent) Field(name string) string {
	if e == nil || e.Fields == nil {
		return ""
	}
	v, ok := e.Fields[name]
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%f", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// NumericField returns a field value as a float64, or 0 when absent or
// non-numeric.
func (e *SecurityEvent) NumericField(name string) float64 {
	if e == nil || e.Fields == nil {
		return 0
	}
	switch val := e.Fields[name].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	}
	return 0
}

// BytesTransferred returns the bytes_transferred feature.
func (e *SecurityEvent) BytesTransferred() float64 {
	return e.NumericField("bytes_transferred")
}

// LoginAttempts returns the login_attempts feature.
func (e *SecurityEvent) LoginAttempts() float64 {
	return e.NumericField("login_attempts")
}

// Duration returns the duration feature in seconds.
func (e *SecurityEvent) Duration() float64 {
	return e.NumericField("duration")
}
