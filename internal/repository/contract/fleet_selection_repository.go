package contract

import (
	"context"

	"ship-consultant-be/internal/entity"
	"ship-consultant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FleetSelectionRepository interface {
	Create(ctx context.Context, selection *entity.FleetSelection) error
	Update(ctx context.Context, selection *entity.FleetSelection) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FleetSelection, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FleetSelection, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// MarkRemoved flags a selection as removed without renumbering ordinals.
	MarkRemoved(ctx context.Context, conversationId, shipId uuid.UUID) error
}
