package seclog

import (
	"testing"
	"time"
)

func TestParseFullEvent(t *testing.T) {
	payload := []byte(`{
		"timestamp": "2026-03-01T12:00:00Z",
		"event_type": "network_connection",
		"source_asset": "web-01",
		"target_asset": "db-01",
		"connection_type": "sql",
		"weight": 2.5,
		"source_ip": "10.0.0.5",
		"severity": "medium",
		"record_id": "r-100",
		"bytes_transferred": 1048576,
		"login_attempts": 3
	}`)

	event, err := Parse(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !event.Timestamp.Equal(want) {
		t.Fatalf("unexpected timestamp: %v", event.Timestamp)
	}
	if event.EventType != "network_connection" {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	if event.SourceAsset != "web-01" || event.TargetAsset != "db-01" {
		t.Fatalf("unexpected endpoints: %s -> %s", event.SourceAsset, event.TargetAsset)
	}
	if event.ConnectionType != "sql" {
		t.Fatalf("unexpected connection type: %s", event.ConnectionType)
	}
	if event.Weight != 2.5 {
		t.Fatalf("unexpected weight: %v", event.Weight)
	}
	if !event.HasAssetPair() {
		t.Fatalf("expected a complete asset pair")
	}
	if event.BytesTransferred() != 1048576 {
		t.Fatalf("feature fields must land in Fields, got %v", event.Fields)
	}
	if event.LoginAttempts() != 3 {
		t.Fatalf("unexpected login attempts: %v", event.LoginAttempts())
	}
}

func TestParseConnectionTypeFallsBackToEventType(t *testing.T) {
	event, err := Parse([]byte(`{"event_type": "rdp_session", "source_asset": "a", "target_asset": "b"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ConnectionType != "rdp_session" {
		t.Fatalf("expected fallback to event type, got %s", event.ConnectionType)
	}
}

func TestParseAlternateFieldNames(t *testing.T) {
	event, err := Parse([]byte(`{
		"@timestamp": "2026-03-01 12:00:00",
		"type": "login",
		"src_asset": "laptop-7",
		"dst_asset": "vpn-gw",
		"src_ip": "192.168.1.20"
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Timestamp.IsZero() {
		t.Fatalf("expected the space-separated layout to parse")
	}
	if event.EventType != "login" {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	if event.SourceAsset != "laptop-7" || event.TargetAsset != "vpn-gw" {
		t.Fatalf("unexpected endpoints: %s -> %s", event.SourceAsset, event.TargetAsset)
	}
	if event.SourceIP != "192.168.1.20" {
		t.Fatalf("unexpected source ip: %s", event.SourceIP)
	}
}

func TestParseNestedFieldsObject(t *testing.T) {
	event, err := Parse([]byte(`{
		"event_type": "file_access",
		"source_asset": "a",
		"target_asset": "b",
		"fields": {"duration": 120, "action": "denied"}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Duration() != 120 {
		t.Fatalf("unexpected duration: %v", event.Duration())
	}
	if event.Field("action") != "denied" {
		t.Fatalf("unexpected action: %s", event.Field("action"))
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{not json`)); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestParseIncompletePairIsNotAnError(t *testing.T) {
	event, err := Parse([]byte(`{"event_type": "dns_query", "source_asset": "web-01"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.HasAssetPair() {
		t.Fatalf("a single endpoint is not a pair")
	}
}
