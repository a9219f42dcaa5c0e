package contract

import (
	"context"

	"ship-consultant-be/internal/entity"
	"ship-consultant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ShipRepository interface {
	Create(ctx context.Context, ship *entity.Ship) error
	Update(ctx context.Context, ship *entity.Ship) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ship, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ship, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
