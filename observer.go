// CloudEvents bridge for the event bus. Host-side consumers that want a
// standardized envelope (audit sinks, external brokers, test probes) register
// as observers and receive every bridged bus event as a CloudEvent.

package modhost

import (
	"context"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// cloudEventSource identifies the host as the CloudEvents source.
const cloudEventSource = "modhost/registry"

// Observer receives bridged bus events in CloudEvents form.
type Observer interface {
	// OnEvent is called for each bridged event. Observers should return
	// quickly; errors are logged, never propagated to the publisher.
	OnEvent(ctx context.Context, event cloudevents.Event) error

	// ObserverID returns a unique identifier used for registration
	// tracking and diagnostics.
	ObserverID() string
}

// FunctionalObserver wraps a handler function as an Observer.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event cloudevents.Event) error
}

// NewFunctionalObserver creates an observer backed by a function.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event cloudevents.Event) error) *FunctionalObserver {
	return &FunctionalObserver{id: id, handler: handler}
}

// OnEvent implements Observer.
func (f *FunctionalObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return f.handler(ctx, event)
}

// ObserverID implements Observer.
func (f *FunctionalObserver) ObserverID() string { return f.id }

// NewCloudEvent converts a bus event into a CloudEvent. The bus event name
// becomes the CloudEvent type and the attribute bag becomes the JSON data
// payload.
func NewCloudEvent(event *Event) cloudevents.Event {
	ce := cloudevents.NewEvent()
	ce.SetID(generateEventID())
	ce.SetSource(cloudEventSource)
	ce.SetType(event.Name())
	ce.SetTime(time.Now())
	ce.SetSpecVersion(cloudevents.VersionV1)
	_ = ce.SetData(cloudevents.ApplicationJSON, event.Attributes())
	return ce
}

// generateEventID returns a UUIDv7 so event IDs sort by emission time, with
// a v4 fallback.
func generateEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// RegisterObserver bridges the given bus event types to an observer. The
// observer is invoked synchronously after the type's regular handlers, once
// per listed type; observer errors are logged and never abort delivery.
func (b *EventBus) RegisterObserver(observer Observer, eventTypes ...string) {
	for _, eventType := range eventTypes {
		b.Subscribe(eventType, func(event *Event) {
			ce := NewCloudEvent(event)
			if err := observer.OnEvent(context.Background(), ce); err != nil {
				b.logger.Error("Observer error",
					"observerID", observer.ObserverID(), "event", event.Name(), "error", err)
			}
		})
	}
}
