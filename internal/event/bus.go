package event

import (
	"log/slog"
	"runtime/debug"
	"slices"
	"strconv"
	"sync"
)

// Handler receives a published event.
type Handler func(Event)

// subscription is one registered handler. A wildcard subscription receives
// every event regardless of type.
type subscription struct {
	id       string
	match    string
	wildcard bool
	handler  Handler
}

// Bus is a synchronous pub-sub dispatcher. Publishers and subscribers never
// hold references to each other; the bus is the only coupling point.
// Safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	lastID uint64
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler for events of the given type and returns an
// id usable with Unsubscribe.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	return b.add(subscription{match: eventType, handler: handler})
}

// SubscribeAll registers handler for every event type and returns an id
// usable with Unsubscribe.
func (b *Bus) SubscribeAll(handler Handler) string {
	return b.add(subscription{wildcard: true, handler: handler})
}

func (b *Bus) add(sub subscription) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastID++
	sub.id = "sub-" + strconv.FormatUint(b.lastID, 10)
	b.subs = append(b.subs, sub)
	return sub.id
}

// Unsubscribe removes the subscription with the given id, reporting whether
// it existed.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = slices.Delete(b.subs, i, i+1)
			return true
		}
	}
	return false
}

// Publish dispatches event synchronously: handlers subscribed to its exact
// type first, then wildcard handlers, each group in registration order. A
// panicking handler is recovered and logged so it cannot starve the
// remaining handlers of the event.
func (b *Bus) Publish(event Event) {
	eventType := event.EventType()

	b.mu.RLock()
	matched := make([]Handler, 0, len(b.subs))
	for _, sub := range b.subs {
		if !sub.wildcard && sub.match == eventType {
			matched = append(matched, sub.handler)
		}
	}
	for _, sub := range b.subs {
		if sub.wildcard {
			matched = append(matched, sub.handler)
		}
	}
	b.mu.RUnlock()

	for _, handler := range matched {
		dispatch(handler, event)
	}
}

// dispatch runs one handler, converting a panic into an error log with the
// handler's stack.
func dispatch(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked",
				"event_type", event.EventType(),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	handler(event)
}

// Clear drops every subscription.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
}

// SubscriptionCount reports how many subscriptions are registered.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
