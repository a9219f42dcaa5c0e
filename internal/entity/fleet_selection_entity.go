package entity

import (
	"time"

	"github.com/google/uuid"
)

type FleetSelection struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	ShipId         uuid.UUID
	ShipName       string
	Rationale      string
	Ordinal        int
	Removed        bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
