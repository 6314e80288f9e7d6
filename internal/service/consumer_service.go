package service

import (
	"context"
	"encoding/json"
	"time"

	"redis-copilot-be/internal/constant"
	"redis-copilot-be/internal/dto"
	"redis-copilot-be/internal/pkg/logger"
	"redis-copilot-be/pkg/events"
	pktNats "redis-copilot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the internal turn-completed topic and forwards
// each event to NATS for external consumers. The forward is at-least-once;
// invalid payloads are acked so they never loop.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		eventPublisher: eventPublisher,
		logger:         log,
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
	var payload dto.PublishTurnCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal turn-completed message", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	if cs.eventPublisher == nil {
		// No external bus configured; the internal event is still consumed.
		msg.Ack()
		return
	}

	evt := events.BaseEvent{
		Type: constant.TurnCompletedTopic,
		Data: map[string]interface{}{
			"account_id":      payload.AccountId,
			"database_id":     payload.DatabaseId,
			"conversation_id": payload.ConversationId,
			"message_ids":     payload.MessageIds,
			"completed_at":    payload.CompletedAt.Format(time.RFC3339),
		},
		OccurredAt: time.Now(),
	}
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.logger.Warn("Consumer", "Failed to forward turn-completed event to NATS", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	msg.Ack()
}
