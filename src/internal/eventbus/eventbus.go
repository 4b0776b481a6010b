// Package eventbus is a synchronous publish/subscribe registry keyed by
// event kind. The recalculation cascade is installed at construction as a
// first-class subscriber: it cannot be removed and always runs before any
// dynamically registered listener. Ordering between dynamic listeners is
// not guaranteed.
package eventbus

import (
	"context"
	"sync"

	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/logger"
)

type Kind string

const (
	MovementCreated Kind = "MOVEMENT_CREATED"
	MovementUpdated Kind = "MOVEMENT_UPDATED"
	MovementDeleted Kind = "MOVEMENT_DELETED"
	AccountChanged  Kind = "ACCOUNT_CHANGED"
)

// Event carries the full affected entity and, for updates, the previous
// version.
type Event struct {
	Kind             Kind
	AccountID        string
	Movement         *domain.Movement
	PreviousMovement *domain.Movement
	Account          *domain.Account
}

type Handler func(ctx context.Context, event Event)

// CascadeHandler is the always-present subscriber that drives derived
// state: balance recalculation, projections, recommendations. A returned
// error is logged, never propagated to the publisher.
type CascadeHandler func(ctx context.Context, event Event) error

type Subscription struct {
	id   uint64
	kind Kind
}

type Bus struct {
	mu      sync.Mutex
	cascade CascadeHandler
	nextID  uint64
	subs    map[Kind]map[uint64]Handler
}

func New(cascade CascadeHandler) *Bus {
	return &Bus{
		cascade: cascade,
		subs:    make(map[Kind]map[uint64]Handler),
	}
}

// SetCascade installs the cascade handler after construction; wiring needs
// this because the cascade's services publish through the same bus.
func (b *Bus) SetCascade(cascade CascadeHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cascade = cascade
}

func (b *Bus) Subscribe(kind Kind, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	if b.subs[kind] == nil {
		b.subs[kind] = make(map[uint64]Handler)
	}
	b.subs[kind][b.nextID] = handler

	return Subscription{id: b.nextID, kind: kind}
}

func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if handlers, ok := b.subs[sub.kind]; ok {
		delete(handlers, sub.id)
	}
}

// Publish dispatches synchronously: cascade first, dynamic listeners after.
// Publish returns once every listener has run, so a caller that awaits it
// observes fully recalculated derived state.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.Lock()
	cascade := b.cascade
	handlers := make([]Handler, 0, len(b.subs[event.Kind]))
	for _, handler := range b.subs[event.Kind] {
		handlers = append(handlers, handler)
	}
	b.mu.Unlock()

	if cascade != nil {
		if err := cascade(ctx, event); err != nil {
			logger.Error("event bus cascade failed", err, logger.Fields{
				"kind":      string(event.Kind),
				"accountId": event.AccountID,
			})
		}
	}

	for _, handler := range handlers {
		handler(ctx, event)
	}
}
