package events

import "time"

// Event is the contract for conversation lifecycle events.
type Event interface {
	// EventType returns the unique code for this event
	// (e.g., "CONVERSATION_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic form. Publishers use the typed constructors in
// consultant_events.go; the subscriber rebuilds events as BaseEvent from
// the wire subject and payload.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
