package events

import "time"

// Lifecycle event codes published to the analytics bus.
const (
	TypeConversationStarted   = "CONVERSATION_STARTED"
	TypeConversationCompleted = "CONVERSATION_COMPLETED"
	TypeConversationAbandoned = "CONVERSATION_ABANDONED"
	TypeFleetSelectionAdded   = "FLEET_SELECTION_ADDED"
	TypeFleetSelectionRemoved = "FLEET_SELECTION_REMOVED"
)

func NewConversationStarted(conversationID string) Event {
	return BaseEvent{
		Type: TypeConversationStarted,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
		},
		OccurredAt: time.Now(),
	}
}

func NewConversationCompleted(conversationID string, fleetSize int) Event {
	return BaseEvent{
		Type: TypeConversationCompleted,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
			"fleet_size":      fleetSize,
		},
		OccurredAt: time.Now(),
	}
}

func NewConversationAbandoned(conversationID string, phase string) Event {
	return BaseEvent{
		Type: TypeConversationAbandoned,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
			"phase":           phase,
		},
		OccurredAt: time.Now(),
	}
}

func NewFleetSelectionAdded(conversationID, shipID string, ordinal int) Event {
	return BaseEvent{
		Type: TypeFleetSelectionAdded,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
			"ship_id":         shipID,
			"ordinal":         ordinal,
		},
		OccurredAt: time.Now(),
	}
}

func NewFleetSelectionRemoved(conversationID, shipID string) Event {
	return BaseEvent{
		Type: TypeFleetSelectionRemoved,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
			"ship_id":         shipID,
		},
		OccurredAt: time.Now(),
	}
}
