package service

import (
	"context"
	"encoding/json"

	"tree-editor-be/internal/dto"
	"tree-editor-be/internal/pkg/logger"
	internalWS "tree-editor-be/internal/websocket"
	"tree-editor-be/pkg/events"
	pktNats "tree-editor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains tree-change messages off the in-process bus and
// fans them out: NATS for other services, the websocket hub for the user's
// other open windows.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	natsPub   *pktNats.Publisher
	hub       *internalWS.Hub
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	natsPub *pktNats.Publisher,
	hub *internalWS.Hub,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		natsPub:   natsPub,
		hub:       hub,
		logger:    logger,
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
	var payload dto.NodeTreeChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "failed to unmarshal tree change", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack malformed messages to prevent infinite redelivery.
		msg.Ack()
		return
	}

	if cs.natsPub != nil {
		event := events.NewTreeChangedEvent(payload.UserId, payload.NodeId, payload.Action)
		if err := cs.natsPub.Publish(ctx, event); err != nil {
			cs.logger.Warn("ConsumerService", "failed to forward tree change to NATS", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if cs.hub != nil {
		cs.hub.SendToUser(payload.UserId, msg.Payload)
	}

	msg.Ack()
}
