package entity

import (
	"time"

	"github.com/google/uuid"
)

type Ship struct {
	Id            uuid.UUID
	Name          string
	Slug          string
	Manufacturer  string
	Focus         string
	Type          string
	CargoCapacity int
	CrewMin       int
	CrewMax       int
	PriceUSD      float64
	PriceAUEC     float64
	MaxSpeed      int
	ImageURL      string
	StoreURL      string
	Description   string
	Raw           map[string]interface{}
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

type ShipEmbedding struct {
	Id             uuid.UUID
	ShipId         uuid.UUID
	Document       string
	EmbeddingValue []float32
	Model          string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
