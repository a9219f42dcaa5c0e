package dto

import (
	"github.com/google/uuid"
)

type CreateShipRequest struct {
	Name          string                 `json:"name" validate:"required,max=200"`
	Slug          string                 `json:"slug" validate:"required,max=200"`
	Manufacturer  string                 `json:"manufacturer" validate:"max=200"`
	Focus         string                 `json:"focus" validate:"max=100"`
	Type          string                 `json:"type" validate:"max=100"`
	CargoCapacity int                    `json:"cargo_capacity" validate:"gte=0"`
	CrewMin       int                    `json:"crew_min" validate:"gte=0"`
	CrewMax       int                    `json:"crew_max" validate:"gte=0"`
	PriceUSD      float64                `json:"price_usd" validate:"gte=0"`
	PriceAUEC     float64                `json:"price_auec" validate:"gte=0"`
	MaxSpeed      int                    `json:"max_speed" validate:"gte=0"`
	ImageURL      string                 `json:"image_url" validate:"omitempty,url"`
	StoreURL      string                 `json:"store_url" validate:"omitempty,url"`
	Description   string                 `json:"description"`
	Raw           map[string]interface{} `json:"raw,omitempty"`
}

type ShipResponse struct {
	Id            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Manufacturer  string    `json:"manufacturer"`
	Focus         string    `json:"focus"`
	Type          string    `json:"type"`
	CargoCapacity int       `json:"cargo_capacity"`
	CrewMin       int       `json:"crew_min"`
	CrewMax       int       `json:"crew_max"`
	PriceUSD      float64   `json:"price_usd"`
	PriceAUEC     float64   `json:"price_auec,omitempty"`
	MaxSpeed      int       `json:"max_speed,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	StoreURL      string    `json:"store_url,omitempty"`
	Description   string    `json:"description"`
}

type SearchShipsRequest struct {
	Query        string  `query:"q" validate:"required,max=500"`
	TopK         int     `query:"top_k"`
	MaxPriceUSD  float64 `query:"max_price_usd"`
	MinCargoSCU  int     `query:"min_cargo_scu"`
	MaxCrew      int     `query:"max_crew"`
	Manufacturer string  `query:"manufacturer"`
	Focus        string  `query:"focus"`
}

type ScoredShipResponse struct {
	Ship  ShipResponse `json:"ship"`
	Score float64      `json:"score"`
}

type SearchShipsResponse struct {
	Results       []ScoredShipResponse `json:"results"`
	LowConfidence bool                 `json:"low_confidence"`
}
