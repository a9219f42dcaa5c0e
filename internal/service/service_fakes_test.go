package service

import (
	"context"
	"time"

	"ship-consultant-be/internal/entity"
	"ship-consultant-be/internal/pkg/logger"
	"ship-consultant-be/internal/repository/contract"
	"ship-consultant-be/internal/repository/specification"
	"ship-consultant-be/internal/repository/unitofwork"
	"ship-consultant-be/pkg/embedding"
	"ship-consultant-be/pkg/llm"

	"github.com/google/uuid"
)

// In-memory stand-ins for the gorm-backed repositories. They interpret just
// the specifications the services actually pass.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(string) (*logger.LogEntry, error) { return nil, nil }

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Generate(_ context.Context, _ string, _ string) (*embedding.EmbeddingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: s.vector},
		Model:     "stub-embedder",
	}, nil
}

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *stubLLM) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return s.reply, s.err
}

type stubPublisher struct {
	published [][]byte
}

func (s *stubPublisher) Publish(_ context.Context, payload []byte) error {
	s.published = append(s.published, payload)
	return nil
}

type fakeShipRepo struct {
	ships map[uuid.UUID]*entity.Ship
}

func newFakeShipRepo(ships ...*entity.Ship) *fakeShipRepo {
	r := &fakeShipRepo{ships: make(map[uuid.UUID]*entity.Ship)}
	for _, s := range ships {
		r.ships[s.Id] = s
	}
	return r
}

func (r *fakeShipRepo) Create(_ context.Context, ship *entity.Ship) error {
	r.ships[ship.Id] = ship
	return nil
}

func (r *fakeShipRepo) Update(_ context.Context, ship *entity.Ship) error {
	r.ships[ship.Id] = ship
	return nil
}

func (r *fakeShipRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.ships, id)
	return nil
}

func (r *fakeShipRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Ship, error) {
	for _, sp := range specs {
		switch s := sp.(type) {
		case specification.ByID:
			return r.ships[s.ID], nil
		case specification.BySlug:
			for _, ship := range r.ships {
				if ship.Slug == s.Slug {
					return ship, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeShipRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Ship, error) {
	out := make([]*entity.Ship, 0, len(r.ships))
	for _, s := range r.ships {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeShipRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.ships)), nil
}

type fakeEmbeddingRepo struct {
	scored    []*contract.ScoredShipEmbedding
	searchErr error
	upserted  []*entity.ShipEmbedding
}

func (r *fakeEmbeddingRepo) Create(_ context.Context, e *entity.ShipEmbedding) error {
	r.upserted = append(r.upserted, e)
	return nil
}

func (r *fakeEmbeddingRepo) Upsert(_ context.Context, e *entity.ShipEmbedding) error {
	r.upserted = append(r.upserted, e)
	return nil
}

func (r *fakeEmbeddingRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeEmbeddingRepo) DeleteByShipId(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeEmbeddingRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.ShipEmbedding, error) {
	return nil, nil
}

func (r *fakeEmbeddingRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ShipEmbedding, error) {
	return r.upserted, nil
}

func (r *fakeEmbeddingRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.upserted)), nil
}

func (r *fakeEmbeddingRepo) SearchSimilarWithScore(_ context.Context, _ []float32, limit int, threshold float64) ([]*contract.ScoredShipEmbedding, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	out := make([]*contract.ScoredShipEmbedding, 0, len(r.scored))
	for _, s := range r.scored {
		if s.Similarity < threshold {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeConversationRepo struct {
	conversations map[uuid.UUID]*entity.Conversation
	updates       []*entity.Conversation
	updateErr     error
}

func newFakeConversationRepo(conversations ...*entity.Conversation) *fakeConversationRepo {
	r := &fakeConversationRepo{conversations: make(map[uuid.UUID]*entity.Conversation)}
	for _, c := range conversations {
		r.conversations[c.Id] = c
	}
	return r
}

func (r *fakeConversationRepo) Create(_ context.Context, c *entity.Conversation) error {
	r.conversations[c.Id] = c
	return nil
}

func (r *fakeConversationRepo) Update(_ context.Context, c *entity.Conversation) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	snapshot := *c
	r.updates = append(r.updates, &snapshot)
	r.conversations[c.Id] = c
	return nil
}

func (r *fakeConversationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.conversations, id)
	return nil
}

func (r *fakeConversationRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	for _, sp := range specs {
		if s, ok := sp.(specification.ByID); ok {
			return r.conversations[s.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Conversation, error) {
	out := make([]*entity.Conversation, 0, len(r.conversations))
	for _, c := range r.conversations {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeConversationRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.conversations)), nil
}

func (r *fakeConversationRepo) FindIdleActive(_ context.Context, cutoff time.Time) ([]*entity.Conversation, error) {
	var out []*entity.Conversation
	for _, c := range r.conversations {
		if c.Status == "active" && c.LastMessageAt.Before(cutoff) {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeMessageRepo struct {
	messages  []*entity.ConversationMessage
	createErr error
}

func (r *fakeMessageRepo) Create(_ context.Context, m *entity.ConversationMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeMessageRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ConversationMessage, error) {
	return r.messages, nil
}

func (r *fakeMessageRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.messages)), nil
}

func (r *fakeMessageRepo) DeleteByConversationId(_ context.Context, id uuid.UUID) error {
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ConversationId != id {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

type fakeFleetRepo struct {
	selections []*entity.FleetSelection
}

func (r *fakeFleetRepo) Create(_ context.Context, s *entity.FleetSelection) error {
	r.selections = append(r.selections, s)
	return nil
}

func (r *fakeFleetRepo) Update(_ context.Context, _ *entity.FleetSelection) error { return nil }

func (r *fakeFleetRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.FleetSelection, error) {
	return nil, nil
}

func (r *fakeFleetRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.FleetSelection, error) {
	return r.selections, nil
}

func (r *fakeFleetRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.selections)), nil
}

func (r *fakeFleetRepo) MarkRemoved(_ context.Context, _, shipId uuid.UUID) error {
	for _, s := range r.selections {
		if s.ShipId == shipId {
			s.Removed = true
		}
	}
	return nil
}

type fakeUnitOfWork struct {
	ships         *fakeShipRepo
	embeddings    *fakeEmbeddingRepo
	conversations *fakeConversationRepo
	messages      *fakeMessageRepo
	fleet         *fakeFleetRepo
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		ships:         newFakeShipRepo(),
		embeddings:    &fakeEmbeddingRepo{},
		conversations: newFakeConversationRepo(),
		messages:      &fakeMessageRepo{},
		fleet:         &fakeFleetRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                 { return nil }
func (u *fakeUnitOfWork) Rollback() error               { return nil }

func (u *fakeUnitOfWork) ShipRepository() contract.ShipRepository { return u.ships }
func (u *fakeUnitOfWork) ShipEmbeddingRepository() contract.ShipEmbeddingRepository {
	return u.embeddings
}
func (u *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return u.conversations
}
func (u *fakeUnitOfWork) ConversationMessageRepository() contract.ConversationMessageRepository {
	return u.messages
}
func (u *fakeUnitOfWork) FleetSelectionRepository() contract.FleetSelectionRepository {
	return u.fleet
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork { return f.uow }
