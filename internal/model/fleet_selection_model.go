package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FleetSelection struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID      `gorm:"type:uuid;not null;index"`
	ShipId         uuid.UUID      `gorm:"type:uuid;not null"`
	ShipName       string         `gorm:"type:text;not null"`
	Rationale      string         `gorm:"type:text"`
	Ordinal        int            `gorm:"not null"` // never renumbered after removal
	Removed        bool           `gorm:"default:false"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (FleetSelection) TableName() string {
	return "fleet_selections"
}
