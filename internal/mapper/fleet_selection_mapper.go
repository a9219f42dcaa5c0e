package mapper

import (
	"time"

	"ship-consultant-be/internal/entity"
	"ship-consultant-be/internal/model"

	"gorm.io/gorm"
)

type FleetSelectionMapper struct{}

func NewFleetSelectionMapper() *FleetSelectionMapper {
	return &FleetSelectionMapper{}
}

func (m *FleetSelectionMapper) ToEntity(s *model.FleetSelection) *entity.FleetSelection {
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

	return &entity.FleetSelection{
		Id:             s.Id,
		ConversationId: s.ConversationId,
		ShipId:         s.ShipId,
		ShipName:       s.ShipName,
		Rationale:      s.Rationale,
		Ordinal:        s.Ordinal,
		Removed:        s.Removed,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      s.DeletedAt.Valid,
	}
}

func (m *FleetSelectionMapper) ToModel(s *entity.FleetSelection) *model.FleetSelection {
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

	return &model.FleetSelection{
		Id:             s.Id,
		ConversationId: s.ConversationId,
		ShipId:         s.ShipId,
		ShipName:       s.ShipName,
		Rationale:      s.Rationale,
		Ordinal:        s.Ordinal,
		Removed:        s.Removed,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}
