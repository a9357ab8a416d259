package modhost

import "sync"

// EventHandler consumes one event. Handlers run synchronously on the
// publisher's goroutine.
type EventHandler func(*Event)

// EventBus is a typed publish/subscribe mechanism. Handlers subscribe to an
// exact event type name; Publish delivers synchronously in subscriber
// registration order. A handler that returns abnormally (panics) is logged
// and the remaining handlers still receive the event; nothing propagates to
// the publisher.
//
// Delivery is reentrant only as far as the handlers allow it: a handler that
// publishes the event type it is currently handling recurses without any
// guard from the bus.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	logger   Logger
}

// NewEventBus creates a bus that reports handler failures through logger.
func NewEventBus(logger Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the exact event type name.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers the event to every handler subscribed to its exact type,
// in registration order. Events of a type nobody subscribed to are dropped
// silently.
func (b *EventBus) Publish(event *Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	handlers := make([]EventHandler, len(b.handlers[event.Name()]))
	copy(handlers, b.handlers[event.Name()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.deliver(event, handler)
	}
}

func (b *EventBus) deliver(event *Event, handler EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked", "event", event.Name(), "panic", r)
		}
	}()
	handler(event)
}

// SubscriberCount returns how many handlers are registered for a type.
func (b *EventBus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
