package modhost

import (
	"fmt"
	"sync"
)

// Registry is the authoritative table of loaded module instances. It owns
// the lifecycle loader, the event bus and the shared task runner, and lives
// for the whole host process. Insertion order is preserved by List.
//
// Add and Remove are called from the single loader goroutine during the load
// batch; the internal mutex exists because the admin surface and cron tasks
// read the table from other goroutines.
type Registry struct {
	mu      sync.RWMutex
	modules []*ModuleInstance
	byName  map[string]*ModuleInstance

	loader *Loader
	bus    *EventBus
	tasks  *TaskRunner
	logger Logger
}

// RegistryOption customizes registry construction.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	tabula  TabulaRegistry
	catalog *ConstructorCatalog
}

// WithTabulaRegistry sets the external UI-tab collaborator. The default
// records registrations and logs them.
func WithTabulaRegistry(tabula TabulaRegistry) RegistryOption {
	return func(o *registryOptions) { o.tabula = tabula }
}

// WithConstructorCatalog sets the catalog the load space snapshots from.
// The default is the package-level catalog populated by Register.
func WithConstructorCatalog(catalog *ConstructorCatalog) RegistryOption {
	return func(o *registryOptions) { o.catalog = catalog }
}

// NewRegistry creates the process-wide registry with its loader, event bus
// and task runner. Construct it once at host startup and pass it by
// reference to everything that needs it.
func NewRegistry(cfg *HostConfig, logger Logger, opts ...RegistryOption) *Registry {
	options := &registryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.tabula == nil {
		options.tabula = NewLoggingTabulaRegistry(logger)
	}
	if options.catalog == nil {
		options.catalog = defaultCatalog
	}

	r := &Registry{
		byName: make(map[string]*ModuleInstance),
		bus:    NewEventBus(logger),
		tasks:  NewTaskRunner(logger),
		logger: logger,
	}
	r.loader = newLoader(r, cfg, logger, options.tabula, options.catalog)
	return r
}

// Loader returns the module lifecycle loader.
func (r *Registry) Loader() *Loader { return r.loader }

// EventBus returns the host event bus.
func (r *Registry) EventBus() *EventBus { return r.bus }

// Tasks returns the shared cron task runner.
func (r *Registry) Tasks() *TaskRunner { return r.tasks }

// Add registers a loaded module. A second module under an already registered
// name is rejected with ErrDuplicateModule; the first instance stays.
func (r *Registry) Add(instance *ModuleInstance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := instance.Name()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, name)
	}
	r.byName[name] = instance
	r.modules = append(r.modules, instance)
	return nil
}

// Get returns the instance registered under name, or nil.
func (r *Registry) Get(name string) *ModuleInstance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// List returns the registered instances in insertion order.
func (r *Registry) List() []*ModuleInstance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ModuleInstance, len(r.modules))
	copy(out, r.modules)
	return out
}

// Remove disables and unregisters the named module. Removing an unknown name
// is a no-op. The disable hook and the disable event both run while the
// module is still retrievable through Get; only afterwards is it dropped
// from the table. Its scheduled tasks are withdrawn first, and the sync.Once
// in Disable keeps concurrent removals from re-running the hook.
func (r *Registry) Remove(name string) {
	instance := r.Get(name)
	if instance == nil {
		return
	}

	r.logger.Info("Disabling module", "module", name)
	r.tasks.RemoveModuleTasks(name)
	instance.Disable()
	r.bus.Publish(NewEvent(EventTypeModuleDisable).Set("module", name))

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byName, name)
	for i, m := range r.modules {
		if m == instance {
			r.modules = append(r.modules[:i], r.modules[i+1:]...)
			break
		}
	}
}

// DisableAll disables every registered module in reverse insertion order and
// stops the task runner. It is safe to call more than once; each module's
// disable hook still runs exactly once.
func (r *Registry) DisableAll() {
	modules := r.List()
	r.tasks.Stop()
	for i := len(modules) - 1; i >= 0; i-- {
		instance := modules[i]
		r.logger.Info("Stopping module", "module", instance.Name())
		instance.Disable()
		r.bus.Publish(NewEvent(EventTypeModuleDisable).Set("module", instance.Name()))
	}
}
