package events

import (
	"encoding/json"
	"time"
)

// Event defines the contract for all domain events.
type Event interface {
	// EventType is the dotted event code, e.g. "subscription.created".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

const (
	SubscriptionCreated       = "subscription.created"
	SubscriptionUpdated       = "subscription.updated"
	SubscriptionStatusChanged = "subscription.status_changed"
	SubscriptionDeleted       = "subscription.deleted"
	SubscriptionExpired       = "subscription.expired"
	CustomProductCreated      = "catalog.custom_product_created"
	CategoryCreated           = "catalog.category_created"
	CategoryUpdated           = "catalog.category_updated"
	CategoryDeleted           = "catalog.category_deleted"
	ProductCreated            = "catalog.product_created"
	ProductUpdated            = "catalog.product_updated"
	ProductDeleted            = "catalog.product_deleted"
	PlanCreated               = "catalog.plan_created"
	PlanUpdated               = "catalog.plan_updated"
	PlanDeleted               = "catalog.plan_deleted"
	PriceCreated              = "catalog.price_created"
	PriceUpdated              = "catalog.price_updated"
	PriceDeleted              = "catalog.price_deleted"
)

// Payload keys shared by every audited event.
const (
	KeyUserId     = "user_id"
	KeyEntityType = "entity_type"
	KeyEntityId   = "entity_id"
	KeyOldValues  = "old_values"
	KeyNewValues  = "new_values"
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// envelope is the wire form shared by the in-process bus and NATS.
type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func Marshal(e Event) ([]byte, error) {
	return json.Marshal(envelope{
		Type:       e.EventType(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return BaseEvent{}, err
	}
	return BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
