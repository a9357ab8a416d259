// Package modhost provides a host framework for dynamically discovered
// extension modules. It scans a directory of module packages, reads each
// package's declared metadata and load-order constraints, resolves them into
// a deterministic schedule, and drives every module through its lifecycle
// hooks. Modules communicate with the host and with each other through a
// typed event bus owned by the Registry.
//
// Basic usage:
//
//	registry := modhost.NewRegistry(cfg, logger)
//	if err := registry.Loader().Discover(); err != nil {
//		log.Fatal(err)
//	}
//	registry.Loader().LoadAll()
//	registry.Loader().EnableAll()
package modhost

// Module is the capability contract every module main entry must satisfy.
// The loader resolves the concrete implementation through the LoadSpace
// constructor table and invokes the hooks in lifecycle order: OnLoad when the
// module is loaded, OnEnable during the enable batch, OnDisable exactly once
// at shutdown or when the module is removed from the Registry.
type Module interface {
	// OnLoad is called once after instantiation and metadata population,
	// before the module is registered. Modules should prepare internal
	// state here but not yet interact with siblings; modules later in the
	// schedule are not loaded yet.
	OnLoad()

	// OnEnable is called during the enable batch, after every scheduled
	// module has been loaded and registered. Cross-module lookups through
	// the Registry are safe from here on.
	OnEnable()

	// OnDisable is called exactly once when the module is removed or the
	// host shuts down. It must not block indefinitely.
	OnDisable()
}

// CommandProvider is an optional interface for modules that contribute
// commands to the host. OnCreateCommands runs during the enable batch,
// before OnEnable.
type CommandProvider interface {
	OnCreateCommands()
}

// EventDefiner is an optional interface for modules that declare their own
// event types and subscriptions. OnDefineEvents runs during the enable batch
// and receives the host event bus; modules subscribe handlers here instead of
// relying on any reflective handler discovery.
type EventDefiner interface {
	OnDefineEvents(bus *EventBus)
}

// Schedulable is an optional interface for modules with periodic work. The
// host runs every returned task on its shared cron runner while the module
// is enabled and stops them when the module is disabled.
type Schedulable interface {
	ScheduledTasks() []ScheduledTask
}

// ScheduledTask pairs a cron spec (robfig/cron syntax) with the function to
// run on that schedule.
type ScheduledTask struct {
	Spec string
	Run  func()
}

// ModuleConstructor creates a module instance. Packages register one
// constructor per main-entry identifier in the LoadSpace; the loader calls it
// during instantiation.
type ModuleConstructor func() Module

// ModuleState is the lifecycle state of a module. States are strictly
// ordered and a module never moves backwards except into StateDisabled.
//
// The first two states describe the discovery phase, where only the package
// and its descriptor exist; a ModuleInstance is created in StateInstantiated,
// so no instance ever reports an earlier state.
type ModuleState int

const (
	// StateDiscovered means the package was found during the discovery scan.
	StateDiscovered ModuleState = iota
	// StateDescribed means the manifest parsed into a valid descriptor.
	StateDescribed
	// StateInstantiated means the main entry constructor has run.
	StateInstantiated
	// StateConfigured means descriptor metadata has been populated onto the
	// instance.
	StateConfigured
	// StateLoaded means OnLoad completed and the module is registered.
	StateLoaded
	// StateEnabled means OnEnable completed.
	StateEnabled
	// StateDisabled is terminal; OnDisable has run.
	StateDisabled
)

// String returns the lowercase state name.
func (s ModuleState) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateDescribed:
		return "described"
	case StateInstantiated:
		return "instantiated"
	case StateConfigured:
		return "configured"
	case StateLoaded:
		return "loaded"
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}
