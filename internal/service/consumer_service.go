package service

import (
	"context"
	"encoding/json"

	"ship-consultant-be/internal/dto"
	"ship-consultant-be/internal/pkg/logger"
	"ship-consultant-be/internal/pkg/mailer"
	"ship-consultant-be/internal/repository/specification"
	"ship-consultant-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the fleet-guide topic and emails the guide for each
// completed conversation.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		mailer:     emailService,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishFleetGuideMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal fleet guide message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, retrying won't help
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: payload.ConversationId})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load conversation for fleet guide", map[string]interface{}{
			"conversation_id": payload.ConversationId.String(),
			"error":           err.Error(),
		})
		msg.Nack()
		return
	}
	if conversation == nil {
		cs.logger.Warn("ConsumerService", "Conversation gone, dropping fleet guide", map[string]interface{}{
			"conversation_id": payload.ConversationId.String(),
		})
		msg.Ack()
		return
	}
	if conversation.UserEmail == "" {
		// Nothing to deliver to. Not an error, the user never left an email.
		msg.Ack()
		return
	}

	selections, err := uow.FleetSelectionRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: payload.ConversationId},
		specification.ActiveSelections{},
		specification.OrderBy{Field: "ordinal"},
	)
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load fleet for guide", map[string]interface{}{
			"conversation_id": payload.ConversationId.String(),
			"error":           err.Error(),
		})
		msg.Nack()
		return
	}
	if len(selections) == 0 {
		msg.Ack()
		return
	}

	items := make([]mailer.FleetGuideItem, len(selections))
	for i, sel := range selections {
		items[i] = mailer.FleetGuideItem{
			Ordinal:   sel.Ordinal,
			ShipName:  sel.ShipName,
			Rationale: sel.Rationale,
		}
	}

	if err := cs.mailer.SendFleetGuide(conversation.UserEmail, conversation.UserName, items); err != nil {
		msg.Nack()
		return
	}

	cs.logger.Info("ConsumerService", "Fleet guide delivered", map[string]interface{}{
		"conversation_id": payload.ConversationId.String(),
		"fleet_size":      len(items),
	})
	msg.Ack()
}
