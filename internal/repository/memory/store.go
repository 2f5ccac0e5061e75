package memory

import (
	"sync"
	"time"

	"subtracker-be/internal/entity"

	"github.com/google/uuid"
)

// Store keeps every table in process. It backs tests and DB-less local runs.
type Store struct {
	mu sync.RWMutex
	// tx holds a token while a unit of work has an open transaction.
	tx chan struct{}

	categories    map[uuid.UUID]*entity.Category
	products      map[uuid.UUID]*entity.Product
	plans         map[uuid.UUID]*entity.Plan
	prices        map[uuid.UUID]*entity.Price
	priceHistory  map[uuid.UUID]*entity.PriceHistory
	subscriptions map[uuid.UUID]*entity.Subscription
	users         map[uuid.UUID]*entity.User
	auditLogs     map[uuid.UUID]*entity.AuditLog

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		tx:            make(chan struct{}, 1),
		categories:    make(map[uuid.UUID]*entity.Category),
		products:      make(map[uuid.UUID]*entity.Product),
		plans:         make(map[uuid.UUID]*entity.Plan),
		prices:        make(map[uuid.UUID]*entity.Price),
		priceHistory:  make(map[uuid.UUID]*entity.PriceHistory),
		subscriptions: make(map[uuid.UUID]*entity.Subscription),
		users:         make(map[uuid.UUID]*entity.User),
		auditLogs:     make(map[uuid.UUID]*entity.AuditLog),
		now:           time.Now,
	}
}

// PutUser inserts or replaces a user profile. Users are owned by the auth provider,
// so the repository contract has no write path for them.
func (s *Store) PutUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	if c.Id == uuid.Nil {
		c.Id = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	c.UpdatedAt = c.CreatedAt
	s.users[c.Id] = &c
	*u = c
}

type snapshot struct {
	categories    map[uuid.UUID]*entity.Category
	products      map[uuid.UUID]*entity.Product
	plans         map[uuid.UUID]*entity.Plan
	prices        map[uuid.UUID]*entity.Price
	priceHistory  map[uuid.UUID]*entity.PriceHistory
	subscriptions map[uuid.UUID]*entity.Subscription
	auditLogs     map[uuid.UUID]*entity.AuditLog
}

// Stored values are never mutated in place, so copying the maps is enough.
func (s *Store) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &snapshot{
		categories:    copyMap(s.categories),
		products:      copyMap(s.products),
		plans:         copyMap(s.plans),
		prices:        copyMap(s.prices),
		priceHistory:  copyMap(s.priceHistory),
		subscriptions: copyMap(s.subscriptions),
		auditLogs:     copyMap(s.auditLogs),
	}
}

func (s *Store) restore(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = snap.categories
	s.products = snap.products
	s.plans = snap.plans
	s.prices = snap.prices
	s.priceHistory = snap.priceHistory
	s.subscriptions = snap.subscriptions
	s.auditLogs = snap.auditLogs
}

func copyMap[T any](in map[uuid.UUID]*T) map[uuid.UUID]*T {
	out := make(map[uuid.UUID]*T, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func values[T any](in map[uuid.UUID]*T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	return out
}

func (s *Store) stamp(id *uuid.UUID, createdAt, updatedAt *time.Time) {
	now := s.now()
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt != nil && createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt != nil {
		*updatedAt = now
	}
}
