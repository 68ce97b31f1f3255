package handlers

import (
	"encoding/json"
	"testing"
)

func TestXPEventRequest_CarriesBasePoints(t *testing.T) {
	body := []byte(`{"event_type":"quiz_complete","points":100,"time_spent":42}`)

	var req xpEventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.EventType != "quiz_complete" {
		t.Errorf("Expected event type quiz_complete, got %s", req.EventType)
	}
	if req.Points != 100 {
		t.Errorf("Expected 100 base points, got %d", req.Points)
	}
	if req.TimeSpent != 42 {
		t.Errorf("Expected 42 time spent, got %d", req.TimeSpent)
	}
}
