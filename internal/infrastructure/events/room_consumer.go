package events

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"

	"github.com/sketchaa/sketchaa/internal/domain"
	"github.com/sketchaa/sketchaa/internal/infrastructure/contracts"
	"github.com/sketchaa/sketchaa/internal/infrastructure/logging"
	"github.com/sketchaa/sketchaa/internal/infrastructure/messaging"
)

// roomConsumer drains the room event queue into the audit log store.
type roomConsumer struct {
	rabbitmq *messaging.RabbitMQ
	audits   domain.RoomAuditRepository
	logger   logging.Logger
}

func NewRoomConsumer(rabbitmq *messaging.RabbitMQ, audits domain.RoomAuditRepository, logger logging.Logger) *roomConsumer {
	return &roomConsumer{
		rabbitmq: rabbitmq,
		audits:   audits,
		logger:   logger,
	}
}

func (c *roomConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.RoomEventsQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			c.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to unmarshal amqp message", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
			return err
		}

		var payload messaging.RoomEventData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			c.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to unmarshal room event", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
			return err
		}

		if c.audits == nil {
			c.logger.Debug(logging.RabbitMQ, logging.ExternalService, "room event received, audit store disabled", map[logging.ExtraKey]any{
				logging.RoomCode:  payload.Log.RoomCode,
				logging.EventName: string(payload.Log.EventType),
			})
			return nil
		}

		return c.audits.Log(ctx, &payload.Log)
	})
}
