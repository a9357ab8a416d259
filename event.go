package modhost

import "sync"

// Event type names published by the framework itself.
const (
	// EventTypeModuleDiscover is published once per package found during
	// the discovery scan. Payload key: module.
	EventTypeModuleDiscover = "ModuleDiscoverEvent"

	// EventTypeModuleLoad is published after a module's load hook ran and
	// it was registered. Payload keys: module, version, description,
	// mainClass, preferredScope, storesSensitiveData, usesEncryption,
	// dataFolder.
	EventTypeModuleLoad = "ModuleLoadEvent"

	// EventTypeModuleEnable is published after a module's enable hook ran.
	// Payload key: module.
	EventTypeModuleEnable = "ModuleEnableEvent"

	// EventTypeModuleDisable is published after a module's disable hook
	// ran. Payload key: module.
	EventTypeModuleDisable = "ModuleDisableEvent"
)

// Event is a named, mutable bag of attributes delivered through the
// EventBus. The cancelled flag is advisory: subscribers may inspect it but
// the bus still delivers to every remaining subscriber unless the publisher
// itself decides to short-circuit.
type Event struct {
	mu        sync.RWMutex
	name      string
	attrs     map[string]any
	cancelled bool
}

// NewEvent creates an event of the given type name.
func NewEvent(name string) *Event {
	return &Event{name: name, attrs: make(map[string]any)}
}

// Name returns the event type name.
func (e *Event) Name() string { return e.name }

// Set stores an attribute and returns the event for chaining:
//
//	bus.Publish(modhost.NewEvent("InventorySyncEvent").Set("items", 42))
func (e *Event) Set(key string, value any) *Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attrs[key] = value
	return e
}

// Get returns an attribute and whether it was present.
func (e *Event) Get(key string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.attrs[key]
	return v, ok
}

// GetString returns a string attribute, or "" when absent or not a string.
func (e *Event) GetString(key string) string {
	v, _ := e.Get(key)
	s, _ := v.(string)
	return s
}

// Attributes returns a copy of the attribute map.
func (e *Event) Attributes() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]any, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// SetCancelled marks or unmarks the event as cancelled.
func (e *Event) SetCancelled(cancelled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelled = cancelled
}

// Cancelled reports the advisory cancellation flag.
func (e *Event) Cancelled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cancelled
}
