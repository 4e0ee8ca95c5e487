package events

import (
	"log/slog"
	"sync"
)

// Bus fans operation outcomes out to subscribers.
// Delivery never blocks the publisher: a full subscriber channel drops the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event // op -> channels
	allSubs     []chan Event
	logger      *slog.Logger
	closed      bool
}

// NewBus creates a new event bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]chan Event),
		logger:      logger.With("component", "events"),
	}
}

// Publish delivers e to subscribers of e.Op and to all-event subscribers.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, ch := range b.subscribers[e.Op] {
		select {
		case ch <- e:
		default:
			b.logger.Warn("subscriber channel full, dropping event", "op", e.Op, "outcome", e.Outcome)
		}
	}
	for _, ch := range b.allSubs {
		select {
		case ch <- e:
		default:
			b.logger.Warn("all-subscriber channel full, dropping event", "op", e.Op)
		}
	}
}

// Subscribe returns a channel for outcomes of one operation.
func (b *Bus) Subscribe(op string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers[op] = append(b.subscribers[op], ch)
	return ch
}

// SubscribeAll returns a channel for every outcome.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.allSubs = append(b.allSubs, ch)
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for op, subs := range b.subscribers {
		for i, sub := range subs {
			if sub == ch {
				b.subscribers[op] = append(subs[:i], subs[i+1:]...)
				close(sub)
				return
			}
		}
	}
	for i, sub := range b.allSubs {
		if sub == ch {
			b.allSubs = append(b.allSubs[:i], b.allSubs[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subscribers = nil
	for _, ch := range b.allSubs {
		close(ch)
	}
	b.allSubs = nil
	return nil
}
