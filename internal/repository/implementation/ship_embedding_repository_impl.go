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
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShipEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ShipMapper
}

func NewShipEmbeddingRepository(db *gorm.DB) contract.ShipEmbeddingRepository {
	return &ShipEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewShipMapper(),
	}
}

func (r *ShipEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ShipEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.ShipEmbedding) error {
	m := r.mapper.EmbeddingToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.EmbeddingToEntity(m)
	return nil
}

// Upsert replaces the embedding for a ship when re-ingesting the catalog.
func (r *ShipEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.ShipEmbedding) error {
	m := r.mapper.EmbeddingToModel(embedding)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ship_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "embedding_value", "model", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.EmbeddingToEntity(m)
	return nil
}

func (r *ShipEmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ShipEmbedding{}, id).Error
}

func (r *ShipEmbeddingRepositoryImpl) DeleteByShipId(ctx context.Context, shipId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("ship_id = ?", shipId).Delete(&model.ShipEmbedding{}).Error
}

func (r *ShipEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ShipEmbedding, error) {
	var m model.ShipEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EmbeddingToEntity(&m), nil
}

func (r *ShipEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ShipEmbedding, error) {
	var models []*model.ShipEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ShipEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EmbeddingToEntity(m)
	}
	return entities, nil
}

func (r *ShipEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ShipEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore ranks ship embeddings by cosine similarity against
// the query vector. pgvector's <=> operator is cosine distance, so
// similarity = 1 - distance.
func (r *ShipEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredShipEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.ShipEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("ship_embeddings").
		Select("ship_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN ships ON ships.id = ship_embeddings.ship_id").
		Where("ship_embeddings.deleted_at IS NULL").
		Where("ships.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredShipEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredShipEmbedding{
			Embedding:  r.mapper.EmbeddingToEntity(&res.ShipEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
