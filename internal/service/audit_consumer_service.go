package service

import (
	"context"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IAuditConsumerService interface {
	Consume(ctx context.Context) error
}

// auditConsumerService turns audited domain events into audit_logs rows.
type auditConsumerService struct {
	subscriber message.Subscriber
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAuditConsumerService(subscriber message.Subscriber, uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IAuditConsumerService {
	return &auditConsumerService{
		subscriber: subscriber,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (c *auditConsumerService) Consume(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, DomainEventsTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(ctx, msg)
		}
	}()
	return nil
}

func (c *auditConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		c.logger.Error("AUDIT", "Dropping malformed event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // retrying cannot fix it
		return
	}

	log, ok := auditLogFromEvent(event)
	if !ok {
		msg.Ack()
		return
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AuditLogRepository().Create(ctx, log); err != nil {
		c.logger.Error("AUDIT", "Failed to write audit log", map[string]interface{}{
			"action": log.Action,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}

// auditLogFromEvent keeps only events that name the entity they touched.
func auditLogFromEvent(event events.Event) (*entity.AuditLog, bool) {
	data := event.Payload()
	entityType, _ := data[events.KeyEntityType].(string)
	rawId, _ := data[events.KeyEntityId].(string)
	entityId, err := uuid.Parse(rawId)
	if entityType == "" || err != nil {
		return nil, false
	}

	log := &entity.AuditLog{
		Action:     event.EventType(),
		EntityType: entityType,
		EntityId:   entityId,
		CreatedAt:  event.Timestamp(),
	}
	if raw, ok := data[events.KeyUserId].(string); ok {
		if userId, err := uuid.Parse(raw); err == nil {
			log.UserId = &userId
		}
	}
	if old, ok := data[events.KeyOldValues].(map[string]interface{}); ok {
		log.OldValues = old
	}
	if next, ok := data[events.KeyNewValues].(map[string]interface{}); ok {
		log.NewValues = next
	}
	return log, true
}
