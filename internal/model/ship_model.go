package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Ship struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string         `gorm:"type:text;not null"`
	Slug          string         `gorm:"type:text;not null;uniqueIndex"`
	Manufacturer  string         `gorm:"type:text;index"`
	Focus         string         `gorm:"type:text;index"`
	Type          string         `gorm:"type:text"`
	CargoCapacity int            `gorm:"default:0"` // SCU
	CrewMin       int            `gorm:"default:1"`
	CrewMax       int            `gorm:"default:1"`
	PriceUSD      float64        `gorm:"default:0"` // pledge price, 0 when unknown
	PriceAUEC     float64        `gorm:"default:0"` // in-game price, 0 when unknown
	MaxSpeed      int            `gorm:"default:0"` // m/s
	ImageURL      string         `gorm:"type:text"`
	StoreURL      string         `gorm:"type:text"`
	Description   string         `gorm:"type:text"`
	Raw           datatypes.JSON `gorm:"type:jsonb"` // upstream catalog payload, kept verbatim
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Ship) TableName() string {
	return "ships"
}
