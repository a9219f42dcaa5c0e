package service

import (
	"context"
	"encoding/json"
	"time"

	"ship-consultant-be/internal/constant"
	"ship-consultant-be/internal/dto"
	"ship-consultant-be/internal/entity"
	"ship-consultant-be/internal/pkg/logger"
	"ship-consultant-be/internal/pkg/serverutils"
	"ship-consultant-be/internal/repository/memory"
	"ship-consultant-be/internal/repository/specification"
	"ship-consultant-be/internal/repository/unitofwork"
	"ship-consultant-be/pkg/consultant"
	"ship-consultant-be/pkg/events"
	"ship-consultant-be/pkg/fleet"
	"ship-consultant-be/pkg/llm"
	pktNats "ship-consultant-be/pkg/nats"
	"ship-consultant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	ErrConversationNotFound = serverutils.NewApiError(fiber.StatusNotFound, "Conversation not found")
	ErrConversationClosed   = serverutils.NewApiError(fiber.StatusConflict, "Conversation is no longer active")
	ErrSessionBusy          = serverutils.NewApiError(fiber.StatusConflict, "A previous message is still being processed, try again in a moment")
)

const historyWindow = 20

type IConsultantService interface {
	CreateConversation(ctx context.Context, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error)
	SendMessage(ctx context.Context, conversationId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetConversation(ctx context.Context, conversationId uuid.UUID) (*dto.GetConversationResponse, error)
	CompleteConversation(ctx context.Context, conversationId uuid.UUID) (*dto.CompleteConversationResponse, error)
	SweepIdle(ctx context.Context) error
	StartSweeper(ctx context.Context)
}

type consultantService struct {
	uowFactory       unitofwork.RepositoryFactory
	sessions         *memory.SessionRepository
	orchestrator     *consultant.Orchestrator
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
	idleTimeout      time.Duration
	sweepInterval    time.Duration
}

func NewConsultantService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.SessionRepository,
	orchestrator *consultant.Orchestrator,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	idleTimeout time.Duration,
	sweepInterval time.Duration,
) IConsultantService {
	return &consultantService{
		uowFactory:       uowFactory,
		sessions:         sessions,
		orchestrator:     orchestrator,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
		idleTimeout:      idleTimeout,
		sweepInterval:    sweepInterval,
	}
}

func (s *consultantService) CreateConversation(ctx context.Context, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation := entity.Conversation{
		Id:            uuid.New(),
		UserName:      req.UserName,
		UserEmail:     req.UserEmail,
		Phase:         store.PhaseGreeting,
		Status:        constant.ConversationStatusActive,
		LastMessageAt: time.Now(),
		CreatedAt:     time.Now(),
	}
	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, err
	}

	greeting := entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           constant.MessageRoleModel,
		Content:        constant.GreetingMessage,
		CreatedAt:      time.Now(),
	}
	if err := uow.ConversationMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}

	s.sessions.Save(&store.Session{
		ID:    conversation.Id.String(),
		Phase: store.PhaseGreeting,
	})

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewConversationStarted(conversation.Id.String())); err != nil {
			s.logger.Warn("ConsultantService", "Failed to publish conversation started event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.CreateConversationResponse{
		Id:       conversation.Id,
		Phase:    conversation.Phase,
		Greeting: constant.GreetingMessage,
	}, nil
}

func (s *consultantService) SendMessage(ctx context.Context, conversationId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	// One turn at a time per conversation. The lock is a cache test-and-set,
	// so a second concurrent message bounces immediately instead of queueing.
	if !s.sessions.TryLock(conversationId.String()) {
		return nil, ErrSessionBusy
	}
	defer s.sessions.Unlock(conversationId.String())

	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	if conversation.Status != constant.ConversationStatusActive {
		return nil, ErrConversationClosed
	}

	sess := s.loadSession(conversation)

	accumulator, err := s.loadFleet(ctx, uow, conversationId)
	if err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, uow, conversationId)
	if err != nil {
		return nil, err
	}

	result, err := s.orchestrator.Turn(ctx, consultant.TurnInput{
		Session:     sess,
		Fleet:       accumulator,
		History:     history,
		UserMessage: req.Message,
	})
	if err != nil {
		if err == consultant.ErrSessionClosed {
			return nil, ErrConversationClosed
		}
		return nil, err
	}

	// The runtime session is the source of truth for the rest of the turn;
	// persistence failure degrades to the unpersisted flag below.
	conversation.Phase = result.Phase
	conversation.LastMessageAt = time.Now()
	conversation.Preferences = sessionStateToMap(sess)
	if result.Completed {
		conversation.Status = constant.ConversationStatusCompleted
	}

	persistErr := s.persistTurn(ctx, conversation, conversationId, req.Message, result)
	if persistErr != nil {
		s.logger.Error("ConsultantService", "Turn persistence failed after retry", map[string]interface{}{
			"conversation_id": conversationId.String(),
			"error":           persistErr.Error(),
		})
		conversation.Unpersisted = true
		// Best-effort flag write outside the failed transaction, so the
		// stored row matches what the client was told.
		if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
			s.logger.Warn("ConsultantService", "Could not record unpersisted flag", map[string]interface{}{
				"conversation_id": conversationId.String(),
				"error":           err.Error(),
			})
		}
	}
	s.sessions.Save(sess)

	s.publishTurnEvents(ctx, conversation, result, accumulator)

	return &dto.SendMessageResponse{
		ConversationId: conversationId,
		Reply:          result.Reply,
		Phase:          result.Phase,
		Fleet:          fleetToDTO(accumulator.Snapshot()),
		Unpersisted:    conversation.Unpersisted,
	}, nil
}

// persistTurn writes the user message, the reply, fleet changes and the
// conversation row in one transaction. One retry on failure; a second
// failure is reported to the caller.
func (s *consultantService) persistTurn(ctx context.Context, conversation *entity.Conversation, conversationId uuid.UUID, userMessage string, result *consultant.TurnResult) error {
	attempt := func() error {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		userMsg := entity.ConversationMessage{
			Id:             uuid.New(),
			ConversationId: conversationId,
			Role:           constant.MessageRoleUser,
			Content:        userMessage,
			CreatedAt:      time.Now(),
		}
		if err := uow.ConversationMessageRepository().Create(ctx, &userMsg); err != nil {
			_ = uow.Rollback()
			return err
		}

		replyMsg := entity.ConversationMessage{
			Id:             uuid.New(),
			ConversationId: conversationId,
			Role:           constant.MessageRoleModel,
			Content:        result.Reply,
			CreatedAt:      time.Now(),
		}
		if err := uow.ConversationMessageRepository().Create(ctx, &replyMsg); err != nil {
			_ = uow.Rollback()
			return err
		}

		if result.Accepted != nil {
			shipId, err := uuid.Parse(result.Accepted.ShipID)
			if err != nil {
				_ = uow.Rollback()
				return err
			}
			selection := entity.FleetSelection{
				Id:             uuid.New(),
				ConversationId: conversationId,
				ShipId:         shipId,
				ShipName:       result.Accepted.ShipName,
				Rationale:      result.Accepted.Rationale,
				Ordinal:        result.Accepted.Ordinal,
				CreatedAt:      time.Now(),
			}
			if err := uow.FleetSelectionRepository().Create(ctx, &selection); err != nil {
				_ = uow.Rollback()
				return err
			}
		}

		if result.RemovedShipID != "" {
			shipId, err := uuid.Parse(result.RemovedShipID)
			if err != nil {
				_ = uow.Rollback()
				return err
			}
			if err := uow.FleetSelectionRepository().MarkRemoved(ctx, conversationId, shipId); err != nil {
				_ = uow.Rollback()
				return err
			}
		}

		if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
			_ = uow.Rollback()
			return err
		}

		return uow.Commit()
	}

	err := attempt()
	if err != nil {
		s.logger.Warn("ConsultantService", "Turn persistence failed, retrying once", map[string]interface{}{
			"conversation_id": conversationId.String(),
			"error":           err.Error(),
		})
		err = attempt()
	}
	return err
}

func (s *consultantService) publishTurnEvents(ctx context.Context, conversation *entity.Conversation, result *consultant.TurnResult, accumulator *fleet.Accumulator) {
	if s.eventPublisher != nil {
		if result.Accepted != nil {
			evt := events.NewFleetSelectionAdded(conversation.Id.String(), result.Accepted.ShipID, result.Accepted.Ordinal)
			if err := s.eventPublisher.Publish(ctx, evt); err != nil {
				s.logger.Warn("ConsultantService", "Failed to publish selection event", map[string]interface{}{"error": err.Error()})
			}
		}
		if result.RemovedShipID != "" {
			evt := events.NewFleetSelectionRemoved(conversation.Id.String(), result.RemovedShipID)
			if err := s.eventPublisher.Publish(ctx, evt); err != nil {
				s.logger.Warn("ConsultantService", "Failed to publish removal event", map[string]interface{}{"error": err.Error()})
			}
		}
		if result.Completed {
			evt := events.NewConversationCompleted(conversation.Id.String(), accumulator.Size())
			if err := s.eventPublisher.Publish(ctx, evt); err != nil {
				s.logger.Warn("ConsultantService", "Failed to publish completion event", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	if result.Completed {
		s.queueFleetGuide(ctx, conversation.Id)
	}
}

func (s *consultantService) queueFleetGuide(ctx context.Context, conversationId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishFleetGuideMessage{ConversationId: conversationId})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("ConsultantService", "Failed to queue fleet guide deliverable", map[string]interface{}{
			"conversation_id": conversationId.String(),
			"error":           err.Error(),
		})
	}
}

func (s *consultantService) GetConversation(ctx context.Context, conversationId uuid.UUID) (*dto.GetConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	messages, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	selections, err := uow.FleetSelectionRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.ActiveSelections{},
		specification.OrderBy{Field: "ordinal"},
	)
	if err != nil {
		return nil, err
	}

	messageDTOs := make([]dto.ConversationMessageDTO, len(messages))
	for i, m := range messages {
		messageDTOs[i] = dto.ConversationMessageDTO{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}

	return &dto.GetConversationResponse{
		Id:        conversation.Id,
		UserName:  conversation.UserName,
		UserEmail: conversation.UserEmail,
		Phase:     conversation.Phase,
		Status:    conversation.Status,
		Messages:  messageDTOs,
		Fleet:     selectionsToDTO(selections),
		CreatedAt: conversation.CreatedAt,
	}, nil
}

// CompleteConversation force-closes a conversation, keeping its transcript
// and fleet, and ships the guide for whatever was selected.
func (s *consultantService) CompleteConversation(ctx context.Context, conversationId uuid.UUID) (*dto.CompleteConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	if conversation.Status != constant.ConversationStatusActive {
		return nil, ErrConversationClosed
	}

	next, changed := consultant.Evaluate(conversation.Phase, consultant.TriggerForceComplete)
	if changed {
		conversation.Phase = next
		conversation.Status = constant.ConversationStatusCompleted
		if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
			return nil, err
		}
	}

	if sess, ok := s.sessions.Get(conversationId.String()); ok {
		sess.Phase = store.PhaseCompleted
		s.sessions.Save(sess)
	}

	selections, err := uow.FleetSelectionRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.ActiveSelections{},
		specification.OrderBy{Field: "ordinal"},
	)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewConversationCompleted(conversationId.String(), len(selections))); err != nil {
			s.logger.Warn("ConsultantService", "Failed to publish completion event", map[string]interface{}{"error": err.Error()})
		}
	}
	s.queueFleetGuide(ctx, conversationId)

	return &dto.CompleteConversationResponse{
		Id:     conversationId,
		Status: conversation.Status,
		Fleet:  selectionsToDTO(selections),
	}, nil
}

// SweepIdle moves idle active conversations to abandoned. Transcript and
// fleet stay untouched.
func (s *consultantService) SweepIdle(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cutoff := time.Now().Add(-s.idleTimeout)
	idle, err := uow.ConversationRepository().FindIdleActive(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, conversation := range idle {
		next, changed := consultant.Evaluate(conversation.Phase, consultant.TriggerIdleTimeout)
		if !changed {
			continue
		}
		conversation.Phase = next
		conversation.Status = constant.ConversationStatusAbandoned
		if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
			s.logger.Error("ConsultantService", "Failed to abandon idle conversation", map[string]interface{}{
				"conversation_id": conversation.Id.String(),
				"error":           err.Error(),
			})
			continue
		}
		s.sessions.Delete(conversation.Id.String())

		if s.eventPublisher != nil {
			if err := s.eventPublisher.Publish(ctx, events.NewConversationAbandoned(conversation.Id.String(), conversation.Phase)); err != nil {
				s.logger.Warn("ConsultantService", "Failed to publish abandonment event", map[string]interface{}{"error": err.Error()})
			}
		}
		s.logger.Info("ConsultantService", "Abandoned idle conversation", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
		})
	}
	return nil
}

// StartSweeper runs the abandonment sweep on an interval until the context
// is cancelled.
func (s *consultantService) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.SweepIdle(ctx); err != nil {
					s.logger.Error("ConsultantService", "Idle sweep failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}
	}()
}

// loadSession returns the cached runtime session or rebuilds it from the
// durable record.
func (s *consultantService) loadSession(conversation *entity.Conversation) *store.Session {
	if sess, ok := s.sessions.Get(conversation.Id.String()); ok {
		return sess
	}
	sess := sessionStateFromMap(conversation.Preferences)
	sess.ID = conversation.Id.String()
	sess.Phase = conversation.Phase
	return sess
}

func (s *consultantService) loadFleet(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID) (*fleet.Accumulator, error) {
	selections, err := uow.FleetSelectionRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "ordinal"},
	)
	if err != nil {
		return nil, err
	}

	restored := make([]fleet.Selection, 0, len(selections))
	for _, sel := range selections {
		if sel.Removed {
			continue
		}
		restored = append(restored, fleet.Selection{
			ShipID:    sel.ShipId.String(),
			ShipName:  sel.ShipName,
			Rationale: sel.Rationale,
			Ordinal:   sel.Ordinal,
		})
	}

	return fleet.Restore(restored), nil
}

func (s *consultantService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	if len(messages) > historyWindow {
		messages = messages[len(messages)-historyWindow:]
	}

	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == constant.MessageRoleModel {
			role = "assistant"
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}
	return history, nil
}

// sessionStateToMap snapshots runtime session state into the conversation's
// JSON column so a cache eviction never loses preferences or exclusions.
func sessionStateToMap(sess *store.Session) map[string]interface{} {
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func sessionStateFromMap(state map[string]interface{}) *store.Session {
	sess := &store.Session{}
	if state == nil {
		return sess
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return sess
	}
	_ = json.Unmarshal(raw, sess)
	return sess
}

func fleetToDTO(selections []fleet.Selection) []dto.FleetSelectionDTO {
	out := make([]dto.FleetSelectionDTO, 0, len(selections))
	for _, sel := range selections {
		shipId, err := uuid.Parse(sel.ShipID)
		if err != nil {
			continue
		}
		out = append(out, dto.FleetSelectionDTO{
			ShipId:    shipId,
			ShipName:  sel.ShipName,
			Rationale: sel.Rationale,
			Ordinal:   sel.Ordinal,
		})
	}
	return out
}

func selectionsToDTO(selections []*entity.FleetSelection) []dto.FleetSelectionDTO {
	out := make([]dto.FleetSelectionDTO, 0, len(selections))
	for _, sel := range selections {
		out = append(out, dto.FleetSelectionDTO{
			ShipId:    sel.ShipId,
			ShipName:  sel.ShipName,
			Rationale: sel.Rationale,
			Ordinal:   sel.Ordinal,
		})
	}
	return out
}
