package amqp

import (
	"testing"
	"time"
)

func TestNewEntityEvent(t *testing.T) {
	event := NewEntityEvent("u1", KindTransaction, "t-42", ActionCreated)

	if event.UserID != "u1" || event.ID != "t-42" {
		t.Errorf("unexpected identity: %+v", event)
	}
	if event.Kind != KindTransaction || event.Action != ActionCreated {
		t.Errorf("unexpected kind/action: %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
	if time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be recent")
	}
}

func TestEntityEventJSON(t *testing.T) {
	event := &EntityEvent{
		UserID:    "u1",
		Kind:      KindGoal,
		ID:        "g-7",
		Action:    ActionDeleted,
		Timestamp: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := EntityEventFromJSON(body)
	if err != nil {
		t.Fatalf("EntityEventFromJSON() error = %v", err)
	}

	if parsed.UserID != event.UserID || parsed.ID != event.ID {
		t.Errorf("identity lost: %+v", parsed)
	}
	if parsed.Kind != event.Kind || parsed.Action != event.Action {
		t.Errorf("kind/action lost: %+v", parsed)
	}
	if !parsed.Timestamp.Equal(event.Timestamp) {
		t.Errorf("timestamp lost: %v != %v", parsed.Timestamp, event.Timestamp)
	}
}

func TestEntityEventFromJSONRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `{{`},
		{"missing user", `{"kind":"goal","id":"g-1","action":"created"}`},
		{"missing id", `{"userId":"u1","kind":"goal","action":"created"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := EntityEventFromJSON([]byte(tc.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
