package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/memory"
	"subtracker-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyRemote struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *flakyRemote) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

func (r *flakyRemote) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestAuditEventsBecomeAuditLogs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	consumer := NewAuditConsumerService(pubSub, factory, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(pubSub, nil, BreakerSettings{}, logger.NewNopLogger())
	actor, entityId := uuid.New(), uuid.New()
	publisher.Audit(ctx, events.PriceUpdated, &actor, "price", entityId,
		map[string]interface{}{"amount": "15.49"},
		map[string]interface{}{"amount": "17.99"},
	)

	var logs []*entity.AuditLog
	assert.Eventually(t, func() bool {
		var err error
		logs, err = factory.NewUnitOfWork(ctx).AuditLogRepository().FindAll(ctx)
		return err == nil && len(logs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Len(t, logs, 1)
	assert.Equal(t, events.PriceUpdated, logs[0].Action)
	assert.Equal(t, "price", logs[0].EntityType)
	assert.Equal(t, entityId, logs[0].EntityId)
	require.NotNil(t, logs[0].UserId)
	assert.Equal(t, actor, *logs[0].UserId)
	assert.Equal(t, "15.49", logs[0].OldValues["amount"])
	assert.Equal(t, "17.99", logs[0].NewValues["amount"])
}

func TestAuditLogFromEventNeedsAnEntity(t *testing.T) {
	_, ok := auditLogFromEvent(events.BaseEvent{Type: "catalog.cache_flushed", Data: map[string]interface{}{}})
	assert.False(t, ok)

	_, ok = auditLogFromEvent(events.BaseEvent{Type: events.ProductCreated, Data: map[string]interface{}{
		events.KeyEntityType: "product",
		events.KeyEntityId:   "not-a-uuid",
	}})
	assert.False(t, ok)

	log, ok := auditLogFromEvent(events.BaseEvent{Type: events.ProductCreated, Data: map[string]interface{}{
		events.KeyEntityType: "product",
		events.KeyEntityId:   uuid.New().String(),
	}})
	require.True(t, ok)
	assert.Nil(t, log.UserId)
}

func TestPublisherForwardsToRemote(t *testing.T) {
	remote := &flakyRemote{}
	publisher := NewPublisherService(nil, remote, BreakerSettings{}, logger.NewNopLogger())

	publisher.Publish(context.Background(), events.BaseEvent{Type: events.SubscriptionCreated, OccurredAt: time.Now()})
	assert.Equal(t, 1, remote.count())
}

func TestPublisherBreakerOpensAfterFailures(t *testing.T) {
	remote := &flakyRemote{err: errors.New("nats: no responders available")}
	publisher := NewPublisherService(nil, remote, BreakerSettings{MaxFailures: 2, Timeout: time.Minute}, logger.NewNopLogger())

	for i := 0; i < 5; i++ {
		publisher.Publish(context.Background(), events.BaseEvent{Type: events.SubscriptionUpdated, OccurredAt: time.Now()})
	}
	assert.Equal(t, 2, remote.count())
}

func TestAuditValuesFlattensStructs(t *testing.T) {
	values := auditValues(struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}{Name: "Netflix", Count: 2})

	assert.Equal(t, "Netflix", values["name"])
	assert.Equal(t, float64(2), values["count"])
}
