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

type ShipRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ShipMapper
}

func NewShipRepository(db *gorm.DB) contract.ShipRepository {
	return &ShipRepositoryImpl{
		db:     db,
		mapper: mapper.NewShipMapper(),
	}
}

func (r *ShipRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ShipRepositoryImpl) Create(ctx context.Context, ship *entity.Ship) error {
	m := r.mapper.ToModel(ship)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*ship = *r.mapper.ToEntity(m)
	return nil
}

func (r *ShipRepositoryImpl) Update(ctx context.Context, ship *entity.Ship) error {
	m := r.mapper.ToModel(ship)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*ship = *r.mapper.ToEntity(m)
	return nil
}

func (r *ShipRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Ship{}, id).Error
}

func (r *ShipRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ship, error) {
	var m model.Ship
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ShipRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ship, error) {
	var models []*model.Ship
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Ship, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ShipRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Ship{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
