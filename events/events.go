package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeGameRecorded        EventType = "game_recorded"
	EventTypeGameDeleted         EventType = "game_deleted"
	EventTypeUserDeleted         EventType = "user_deleted"
	EventTypeIsolatedGamesPruned EventType = "isolated_games_pruned"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// GameRecordedEvent is emitted after a game and its outcomes are committed
type GameRecordedEvent struct {
	GameID   int64
	GameType string
	EndDate  time.Time
	UserIDs  []int64
}

func (e GameRecordedEvent) Type() EventType {
	return EventTypeGameRecorded
}

// GameDeletedEvent is emitted after a game row (and by cascade its outcomes) is removed
type GameDeletedEvent struct {
	GameID int64
}

func (e GameDeletedEvent) Type() EventType {
	return EventTypeGameDeleted
}

// UserDeletedEvent is emitted after a discord_user row (and by cascade its outcomes) is removed
type UserDeletedEvent struct {
	UserID int64
}

func (e UserDeletedEvent) Type() EventType {
	return EventTypeUserDeleted
}

// IsolatedGamesPrunedEvent is emitted after games without outcomes are cleared
type IsolatedGamesPrunedEvent struct {
	Count int64
}

func (e IsolatedGamesPrunedEvent) Type() EventType {
	return EventTypeIsolatedGamesPruned
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers.
// Handlers run on their own goroutines and a panicking handler is logged, not propagated.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queued event until commit")
	b.pending = append(b.pending, e)
}

// Flush emits pending events to the real bus. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	// Handlers outlive the request that committed, so they get a fresh context
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events. Called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
