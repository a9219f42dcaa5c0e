package contract

import (
	"context"

	"ship-consultant-be/internal/entity"
	"ship-consultant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredShipEmbedding wraps ShipEmbedding with its cosine similarity score.
type ScoredShipEmbedding struct {
	Embedding  *entity.ShipEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ShipEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ShipEmbedding) error
	Upsert(ctx context.Context, embedding *entity.ShipEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByShipId(ctx context.Context, shipId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ShipEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ShipEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns embeddings with their similarity scores, filtered by threshold
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredShipEmbedding, error)
}
