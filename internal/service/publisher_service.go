package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"subtracker-be/internal/pkg/logger"
	"subtracker-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// DomainEventsTopic is the in-process topic the audit consumer reads.
const DomainEventsTopic = "domain_events"

// RemotePublisher is the optional fan-out target, pkg/nats.Publisher in production.
type RemotePublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IPublisherService interface {
	// Publish never fails the caller; delivery problems are logged.
	Publish(ctx context.Context, event events.Event)
	Audit(ctx context.Context, action string, actor *uuid.UUID, entityType string, entityId uuid.UUID, oldValues, newValues map[string]interface{})
}

type BreakerSettings struct {
	MaxFailures uint32
	Timeout     time.Duration
}

type publisherService struct {
	local   message.Publisher
	remote  RemotePublisher
	breaker *gobreaker.CircuitBreaker[any]
	logger  logger.ILogger
	now     func() time.Time
}

// NewPublisherService publishes to the in-process bus and, when remote is non-nil, to
// the remote bus behind a circuit breaker.
func NewPublisherService(local message.Publisher, remote RemotePublisher, settings BreakerSettings, logger logger.ILogger) IPublisherService {
	s := &publisherService{
		local:  local,
		remote: remote,
		logger: logger,
		now:    time.Now,
	}
	if remote != nil {
		if settings.MaxFailures == 0 {
			settings.MaxFailures = 5
		}
		if settings.Timeout == 0 {
			settings.Timeout = 30 * time.Second
		}
		s.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:        "nats-publisher",
			MaxRequests: 1,
			Timeout:     settings.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= settings.MaxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("EVENTS", "Circuit breaker state changed", map[string]interface{}{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				})
			},
		})
	}
	return s
}

func (s *publisherService) Publish(ctx context.Context, event events.Event) {
	payload, err := events.Marshal(event)
	if err != nil {
		s.logger.Error("EVENTS", "Failed to marshal event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return
	}

	if s.local != nil {
		msg := message.NewMessage(watermill.NewUUID(), payload)
		if err := s.local.Publish(DomainEventsTopic, msg); err != nil {
			s.logger.Error("EVENTS", "Failed to publish event locally", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}

	if s.remote == nil {
		return
	}
	_, err = s.breaker.Execute(func() (any, error) {
		return nil, s.remote.Publish(ctx, event)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			s.logger.Debug("EVENTS", "Remote publish skipped, breaker open", map[string]interface{}{
				"type": event.EventType(),
			})
			return
		}
		s.logger.Error("EVENTS", "Failed to publish event remotely", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *publisherService) Audit(ctx context.Context, action string, actor *uuid.UUID, entityType string, entityId uuid.UUID, oldValues, newValues map[string]interface{}) {
	data := map[string]interface{}{
		events.KeyEntityType: entityType,
		events.KeyEntityId:   entityId.String(),
	}
	if actor != nil {
		data[events.KeyUserId] = actor.String()
	}
	if oldValues != nil {
		data[events.KeyOldValues] = oldValues
	}
	if newValues != nil {
		data[events.KeyNewValues] = newValues
	}
	s.Publish(ctx, events.BaseEvent{
		Type:       action,
		Data:       data,
		OccurredAt: s.now(),
	})
}

// auditValues flattens a response DTO into the JSON object stored on the audit row.
func auditValues(v interface{}) map[string]interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
