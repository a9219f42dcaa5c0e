package mapper

import (
	"encoding/json"
	"time"

	"ship-consultant-be/internal/entity"
	"ship-consultant-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ShipMapper struct{}

func NewShipMapper() *ShipMapper {
	return &ShipMapper{}
}

func (m *ShipMapper) ToEntity(s *model.Ship) *entity.Ship {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var raw map[string]interface{}
	if len(s.Raw) > 0 {
		_ = json.Unmarshal(s.Raw, &raw)
	}

	return &entity.Ship{
		Id:            s.Id,
		Name:          s.Name,
		Slug:          s.Slug,
		Manufacturer:  s.Manufacturer,
		Focus:         s.Focus,
		Type:          s.Type,
		CargoCapacity: s.CargoCapacity,
		CrewMin:       s.CrewMin,
		CrewMax:       s.CrewMax,
		PriceUSD:      s.PriceUSD,
		PriceAUEC:     s.PriceAUEC,
		MaxSpeed:      s.MaxSpeed,
		ImageURL:      s.ImageURL,
		StoreURL:      s.StoreURL,
		Description:   s.Description,
		Raw:           raw,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     s.DeletedAt.Valid,
	}
}

func (m *ShipMapper) ToModel(s *entity.Ship) *model.Ship {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var raw datatypes.JSON
	if s.Raw != nil {
		if encoded, err := json.Marshal(s.Raw); err == nil {
			raw = encoded
		}
	}

	return &model.Ship{
		Id:            s.Id,
		Name:          s.Name,
		Slug:          s.Slug,
		Manufacturer:  s.Manufacturer,
		Focus:         s.Focus,
		Type:          s.Type,
		CargoCapacity: s.CargoCapacity,
		CrewMin:       s.CrewMin,
		CrewMax:       s.CrewMax,
		PriceUSD:      s.PriceUSD,
		PriceAUEC:     s.PriceAUEC,
		MaxSpeed:      s.MaxSpeed,
		ImageURL:      s.ImageURL,
		StoreURL:      s.StoreURL,
		Description:   s.Description,
		Raw:           raw,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
	}
}

func (m *ShipMapper) EmbeddingToEntity(e *model.ShipEmbedding) *entity.ShipEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ShipEmbedding{
		Id:             e.Id,
		ShipId:         e.ShipId,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		Model:          e.Model,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *ShipMapper) EmbeddingToModel(e *entity.ShipEmbedding) *model.ShipEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ShipEmbedding{
		Id:             e.Id,
		ShipId:         e.ShipId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		Model:          e.Model,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}
