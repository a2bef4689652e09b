package seclog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/BitBrain19/Cyber/internal/logger"
	"github.com/BitBrain19/Cyber/pkg/models"
)

// Parse converts a JSON security log record into a normalized SecurityEvent.
func Parse(data []byte) (*models.SecurityEvent, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	event := &models.SecurityEvent{
		Fields: make(map[string]interface{}),
		Raw:    raw,
	}

	if ts := getString(raw, "timestamp", "@timestamp", "time"); ts != "" {
		if t, ok := parseTimestamp(ts); ok {
			event.Timestamp = t
		}
	}

	event.EventType = getString(raw, "event_type", "event.type", "type")
	event.SourceAsset = getString(raw, "source_asset", "source.asset", "src_asset", "source")
	event.TargetAsset = getString(raw, "target_asset", "target.asset", "dst_asset", "target")
	event.ConnectionType = getString(raw, "connection_type", "connection.type")
	if event.ConnectionType == "" {
		event.ConnectionType = event.EventType
	}
	event.Weight = getFloat(raw, "weight")
	event.SourceIP = getString(raw, "source_ip", "src_ip", "source.ip")
	event.Severity = getString(raw, "severity", "event.severity")
	event.RecordID = getString(raw, "record_id", "id")

	if v, ok := getPath(raw, "fields"); ok {
		if m, ok := v.(map[string]interface{}); ok {
			event.Fields = m
		}
	} else {
		for k, v := range raw {
			switch k {
			case "timestamp", "@timestamp", "time", "event_type", "type",
				"source_asset", "src_asset", "source", "target_asset",
				"dst_asset", "target", "connection_type", "weight",
				"source_ip", "src_ip", "severity", "record_id", "id":
				continue
			}
			event.Fields[k] = v
		}
	}

	if event.EventType == "" {
		logger.Debugf("Event without event_type (record_id=%s)", event.RecordID)
	}
	return event, nil
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}

	for _, layout := range []string{
		"2006-01-02 15:04:05.000000",
		"2006-01-02 15:04:05.000",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

func getString(root map[string]interface{}, paths ...string) string {
	for _, path := range paths {
		if v, ok := getPath(root, path); ok {
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
			}
		}
	}
	return ""
}

func getFloat(root map[string]interface{}, paths ...string) float64 {
	for _, path := range paths {
		if v, ok := getPath(root, path); ok {
			switch val := v.(type) {
			case float64:
				return val
			case int:
				return float64(val)
			case int64:
				return float64(val)
			case string:
				if val == "" {
					continue
				}
				var parsed float64
				if _, err := fmt.Sscanf(val, "%g", &parsed); err == nil {
					return parsed
				}
			}
		}
	}
	return 0
}

func getPath(root map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = root
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := m[part]
		if !ok {
			return nil, false
		}
		current = v
	}
	return current, true
}
