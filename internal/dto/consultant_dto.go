package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	UserName  string `json:"user_name,omitempty" validate:"max=100"`
	UserEmail string `json:"user_email,omitempty" validate:"omitempty,email"`
}

type CreateConversationResponse struct {
	Id       uuid.UUID `json:"id"`
	Phase    string    `json:"phase"`
	Greeting string    `json:"greeting"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type FleetSelectionDTO struct {
	ShipId    uuid.UUID `json:"ship_id"`
	ShipName  string    `json:"ship_name"`
	Rationale string    `json:"rationale,omitempty"`
	Ordinal   int       `json:"ordinal"`
}

type SendMessageResponse struct {
	ConversationId uuid.UUID           `json:"conversation_id"`
	Reply          string              `json:"reply"`
	Phase          string              `json:"phase"`
	Fleet          []FleetSelectionDTO `json:"fleet"`
	Unpersisted    bool                `json:"unpersisted,omitempty"`
}

type ConversationMessageDTO struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type GetConversationResponse struct {
	Id        uuid.UUID                `json:"id"`
	UserName  string                   `json:"user_name,omitempty"`
	UserEmail string                   `json:"user_email,omitempty"`
	Phase     string                   `json:"phase"`
	Status    string                   `json:"status"`
	Messages  []ConversationMessageDTO `json:"messages"`
	Fleet     []FleetSelectionDTO      `json:"fleet"`
	CreatedAt time.Time                `json:"created_at"`
}

// PublishFleetGuideMessage rides the in-process queue from conversation
// completion to the email deliverable consumer.
type PublishFleetGuideMessage struct {
	ConversationId uuid.UUID `json:"conversation_id"`
}

type CompleteConversationResponse struct {
	Id     uuid.UUID           `json:"id"`
	Status string              `json:"status"`
	Fleet  []FleetSelectionDTO `json:"fleet"`
}
