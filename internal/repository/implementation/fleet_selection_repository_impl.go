package implementation

import (
	"context"
	"errors"

	"ship-consultant-be/internal/entity"
	"ship-consultant-be/internal/mapper"
	"ship-consultant-be/internal/model"
	"ship-consultant-be/internal/repository/contract"
	"ship-consultant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FleetSelectionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FleetSelectionMapper
}

func NewFleetSelectionRepository(db *gorm.DB) contract.FleetSelectionRepository {
	return &FleetSelectionRepositoryImpl{
		db:     db,
		mapper: mapper.NewFleetSelectionMapper(),
	}
}

func (r *FleetSelectionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FleetSelectionRepositoryImpl) Create(ctx context.Context, selection *entity.FleetSelection) error {
	m := r.mapper.ToModel(selection)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*selection = *r.mapper.ToEntity(m)
	return nil
}

func (r *FleetSelectionRepositoryImpl) Update(ctx context.Context, selection *entity.FleetSelection) error {
	m := r.mapper.ToModel(selection)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*selection = *r.mapper.ToEntity(m)
	return nil
}

func (r *FleetSelectionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FleetSelection, error) {
	var m model.FleetSelection
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FleetSelectionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FleetSelection, error) {
	var models []*model.FleetSelection
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.FleetSelection, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *FleetSelectionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.FleetSelection{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FleetSelectionRepositoryImpl) MarkRemoved(ctx context.Context, conversationId, shipId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.FleetSelection{}).
		Where("conversation_id = ? AND ship_id = ? AND removed = ?", conversationId, shipId, false).
		Update("removed", true).Error
}
