package unitofwork

import (
	"context"

	"ship-consultant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ShipRepository() contract.ShipRepository
	ShipEmbeddingRepository() contract.ShipEmbeddingRepository
	ConversationRepository() contract.ConversationRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
	FleetSelectionRepository() contract.FleetSelectionRepository
}
