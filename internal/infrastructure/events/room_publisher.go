package events

import (
	"context"
	"encoding/json"

	"github.com/sketchaa/sketchaa/internal/domain"
	"github.com/sketchaa/sketchaa/internal/infrastructure/contracts"
	"github.com/sketchaa/sketchaa/internal/infrastructure/logging"
	"github.com/sketchaa/sketchaa/internal/infrastructure/messaging"
)

const publishBufferSize = 256

// RoomPublisher ships room lifecycle events to the game exchange.
// Publish enqueues and returns immediately; a background worker does
// the broker round-trips so callers inside the game loop never block
// on AMQP. Events are dropped when the buffer is full.
type RoomPublisher struct {
	rabbitmq *messaging.RabbitMQ
	logger   logging.Logger
	queue    chan *domain.RoomAuditLog
	done     chan struct{}
}

func NewRoomPublisher(rabbitmq *messaging.RabbitMQ, logger logging.Logger) *RoomPublisher {
	p := &RoomPublisher{
		rabbitmq: rabbitmq,
		logger:   logger,
		queue:    make(chan *domain.RoomAuditLog, publishBufferSize),
		done:     make(chan struct{}),
	}

	go p.run()
	return p
}

func (p *RoomPublisher) Publish(_ context.Context, log *domain.RoomAuditLog) {
	select {
	case p.queue <- log:
	case <-p.done:
	default:
		p.logger.Warn(logging.RabbitMQ, logging.ExternalService, "publish buffer full, event dropped", map[logging.ExtraKey]any{
			logging.RoomCode:  log.RoomCode,
			logging.EventName: string(log.EventType),
		})
	}
}

func (p *RoomPublisher) Close() {
	close(p.done)
}

func (p *RoomPublisher) run() {
	for {
		select {
		case <-p.done:
			return
		case log := <-p.queue:
			p.publish(log)
		}
	}
}

func (p *RoomPublisher) publish(auditLog *domain.RoomAuditLog) {
	payload, err := json.Marshal(messaging.RoomEventData{Log: *auditLog})
	if err != nil {
		p.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to marshal room event", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	msg := contracts.AmqpMessage{
		RoomCode: auditLog.RoomCode,
		Data:     payload,
	}

	if err := p.rabbitmq.PublishMessage(context.Background(), contracts.RoutingKey(auditLog.EventType), msg); err != nil {
		p.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to publish room event", map[logging.ExtraKey]any{
			logging.RoomCode:     auditLog.RoomCode,
			logging.EventName:    string(auditLog.EventType),
			logging.ErrorMessage: err.Error(),
		})
	}
}
