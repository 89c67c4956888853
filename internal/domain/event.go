package domain

import (
	"encoding/json"
	"fmt"
)

// EventType names a server-to-client board notification.
type EventType string

const (
	EventTaskAdded    EventType = "taskAdded"
	EventTaskUpdated  EventType = "taskUpdated"
	EventTaskDeleted  EventType = "taskDeleted"
	EventBoardCleared EventType = "boardCleared"
)

// Event is the websocket frame broadcast after every successful mutation.
// Payload holds a Task for added/updated, the task id string for deleted
// and nothing for boardCleared.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewTaskAdded(t Task) Event {
	return newEvent(EventTaskAdded, t)
}

func NewTaskUpdated(t Task) Event {
	return newEvent(EventTaskUpdated, t)
}

func NewTaskDeleted(id string) Event {
	return newEvent(EventTaskDeleted, id)
}

func NewBoardCleared() Event {
	return Event{Type: EventBoardCleared}
}

func newEvent(typ EventType, v any) Event {
	// Task and string always marshal.
	b, _ := json.Marshal(v)
	return Event{Type: typ, Payload: b}
}

// Task decodes the payload of a taskAdded or taskUpdated event.
// A null payload yields (nil, nil).
func (e Event) Task() (*Task, error) {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil, nil
	}
	var t Task
	if err := json.Unmarshal(e.Payload, &t); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return &t, nil
}

// TaskID decodes the payload of a taskDeleted event.
func (e Event) TaskID() (string, error) {
	var id string
	if err := json.Unmarshal(e.Payload, &id); err != nil {
		return "", fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return id, nil
}
