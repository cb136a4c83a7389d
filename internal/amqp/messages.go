package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntityKind names the entity a change event refers to.
type EntityKind string

const (
	KindCategory    EntityKind = "category"
	KindTransaction EntityKind = "transaction"
	KindGoal        EntityKind = "goal"
	KindLimit       EntityKind = "limit"
)

// EventAction is what happened to the entity.
type EventAction string

const (
	ActionCreated EventAction = "created"
	ActionUpdated EventAction = "updated"
	ActionDeleted EventAction = "deleted"
)

// EntityEvent is the lightweight change notification published after every
// successful write. Consumers fetch the current state from storage; the
// event carries only identity, never the payload.
type EntityEvent struct {
	UserID    string      `json:"userId"`
	Kind      EntityKind  `json:"kind"`
	ID        string      `json:"id"`
	Action    EventAction `json:"action"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewEntityEvent(userID string, kind EntityKind, id string, action EventAction) *EntityEvent {
	return &EntityEvent{
		UserID:    userID,
		Kind:      kind,
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (e *EntityEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EntityEventFromJSON(data []byte) (*EntityEvent, error) {
	var e EntityEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.UserID == "" || e.ID == "" {
		return nil, fmt.Errorf("entity event missing identity: %s", data)
	}
	return &e, nil
}
