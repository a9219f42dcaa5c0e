package service

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"ship-consultant-be/internal/constant"
	"ship-consultant-be/internal/dto"
	"ship-consultant-be/internal/entity"
	"ship-consultant-be/internal/repository/memory"
	"ship-consultant-be/pkg/catalog"
	"ship-consultant-be/pkg/consultant"
	"ship-consultant-be/pkg/llm"
	"ship-consultant-be/pkg/retrieval"
	"ship-consultant-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConsultantService(t *testing.T, uow *fakeUnitOfWork, provider llm.LLMProvider) IConsultantService {
	t.Helper()

	index := catalog.NewIndex(3)
	engine := retrieval.NewEngine(&stubEmbedder{vector: []float32{1, 0, 0}}, index, 0.15, time.Second, log.New(io.Discard, "", 0))
	orchestrator := consultant.NewOrchestrator(provider, engine, time.Second, log.New(io.Discard, "", 0))

	return NewConsultantService(
		&fakeFactory{uow: uow},
		memory.NewSessionRepository(time.Hour),
		orchestrator,
		&stubPublisher{},
		nil,
		nopLogger{},
		time.Hour,
		time.Hour,
	)
}

func activeConversation() *entity.Conversation {
	return &entity.Conversation{
		Id:            uuid.New(),
		Phase:         store.PhaseGreeting,
		Status:        constant.ConversationStatusActive,
		LastMessageAt: time.Now(),
	}
}

func TestSendMessage_PersistsTurn(t *testing.T) {
	conv := activeConversation()
	uow := newFakeUnitOfWork()
	uow.conversations = newFakeConversationRepo(conv)

	svc := testConsultantService(t, uow, &stubLLM{reply: "Tell me more about how you play."})

	res, err := svc.SendMessage(context.Background(), conv.Id, &dto.SendMessageRequest{Message: "hi there"})
	require.NoError(t, err)

	assert.False(t, res.Unpersisted)
	assert.Len(t, uow.messages.messages, 2) // user turn + reply
}

func TestSendMessage_StoresUnpersistedFlagWhenTurnWriteFails(t *testing.T) {
	conv := activeConversation()
	uow := newFakeUnitOfWork()
	uow.conversations = newFakeConversationRepo(conv)
	uow.messages.createErr = errors.New("connection reset by peer")

	svc := testConsultantService(t, uow, &stubLLM{reply: "Tell me more about how you play."})

	res, err := svc.SendMessage(context.Background(), conv.Id, &dto.SendMessageRequest{Message: "hi there"})
	require.NoError(t, err)

	// The reply still goes out, flagged.
	assert.True(t, res.Unpersisted)

	// The flag reaches the conversation row even though the turn
	// transaction failed.
	require.NotEmpty(t, uow.conversations.updates)
	last := uow.conversations.updates[len(uow.conversations.updates)-1]
	assert.True(t, last.Unpersisted)
}
