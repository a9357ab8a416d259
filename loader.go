package modhost

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Loader drives discovery, scheduling and the load/enable batch. All of its
// operations run sequentially on one goroutine; schedule order is a
// correctness requirement, so independent modules are never loaded
// concurrently even when the graph would permit it.
type Loader struct {
	registry *Registry
	cfg      *HostConfig
	logger   Logger
	tabula   TabulaRegistry
	catalog  *ConstructorCatalog
	shutdown *ShutdownManager

	loadSpace *LoadSpace
	packages  map[string]*ModulePackage // by module name, open until LoadAll finishes
	schedule  []ScheduledModule
}

func newLoader(registry *Registry, cfg *HostConfig, logger Logger, tabula TabulaRegistry, catalog *ConstructorCatalog) *Loader {
	return &Loader{
		registry: registry,
		cfg:      cfg,
		logger:   logger,
		tabula:   tabula,
		catalog:  catalog,
		shutdown: NewShutdownManager(logger),
		packages: make(map[string]*ModulePackage),
	}
}

// Shutdown returns the manager that runs module disable hooks at process
// exit. The host arms its signal path and triggers it on normal exit.
func (l *Loader) Shutdown() *ShutdownManager { return l.shutdown }

// LoadSpace returns the shared load space of the current discovery pass, or
// nil before Discover ran.
func (l *Loader) LoadSpace() *LoadSpace { return l.loadSpace }

// Schedule returns a copy of the current load schedule.
func (l *Loader) Schedule() []ScheduledModule {
	out := make([]ScheduledModule, len(l.schedule))
	copy(out, l.schedule)
	return out
}

// Discover scans the packages directory, parses every module manifest,
// establishes the shared load space across all candidate packages, builds
// the load-order graph and computes the schedule.
//
// Per-package problems (unreadable archive, missing or malformed manifest,
// duplicate module name) exclude only that package and are logged. A
// dependency cycle is a batch failure: Discover returns ErrCyclicDependency
// and no schedule is produced.
func (l *Loader) Discover() error {
	entries, err := os.ReadDir(l.cfg.PackagesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Packages directory does not exist, nothing to load", "dir", l.cfg.PackagesDir)
			return nil
		}
		return fmt.Errorf("scan packages directory %s: %w", l.cfg.PackagesDir, err)
	}

	var (
		descriptors []*ModuleDescriptor
		candidates  []*ModulePackage
	)
	// os.ReadDir sorts by file name, which fixes the discovery order the
	// scheduler's tie-breaking depends on.
	for _, entry := range entries {
		if entry.IsDir() || !IsModulePackage(entry.Name()) {
			continue
		}
		path := filepath.Join(l.cfg.PackagesDir, entry.Name())

		pkg, err := OpenModulePackage(path)
		if err != nil {
			l.logger.Error("Skipping unreadable module package", "package", path, "error", err)
			continue
		}
		candidates = append(candidates, pkg)

		manifest, err := pkg.Manifest()
		if err != nil {
			l.logger.Warn("Skipping package without manifest", "package", path, "error", err)
			continue
		}
		desc, err := ParseDescriptor(manifest)
		if err != nil {
			l.logger.Error("Skipping package with invalid manifest", "package", path, "error", err)
			continue
		}
		if _, dup := l.packages[desc.Name]; dup {
			l.logger.Warn("Skipping package with duplicate module name", "package", path, "module", desc.Name)
			continue
		}

		descriptors = append(descriptors, desc)
		l.packages[desc.Name] = pkg
		l.logger.Info("Discovered module", "module", desc.Name, "version", desc.Version, "authors", desc.Authors)
		l.registry.bus.Publish(NewEvent(EventTypeModuleDiscover).Set("module", desc.Name))
	}

	// The load space spans every candidate, including packages whose module
	// failed validation, so cross-module references always resolve.
	l.loadSpace = NewLoadSpace(candidates, l.catalog)

	// Candidates that were skipped are only load space members; their
	// archives are not needed again, so release them now.
	retained := make(map[*ModulePackage]struct{}, len(l.packages))
	for _, pkg := range l.packages {
		retained[pkg] = struct{}{}
	}
	for _, pkg := range candidates {
		if _, keep := retained[pkg]; keep {
			continue
		}
		if err := pkg.Close(); err != nil {
			l.logger.Debug("Closing module package failed", "package", pkg.Path(), "error", err)
		}
	}

	graph := BuildLoadOrderGraph(descriptors)
	for _, unresolved := range graph.Unresolved() {
		l.logger.Warn("Dropping constraint on unknown module",
			"module", unresolved.Module,
			"dependency", unresolved.Dependency.Name,
			"required", unresolved.Dependency.Required)
	}

	schedule, err := graph.Schedule()
	if err != nil {
		l.schedule = nil
		l.closePackages()
		return fmt.Errorf("resolve load order: %w", err)
	}
	l.schedule = schedule
	l.logger.Debug("Module load order resolved", "modules", len(schedule))
	return nil
}

// LoadAll loads every scheduled module in order. A failing module is
// abandoned without partial registration and the batch continues; the host
// keeps running with whatever subset loaded. Packages are closed once the
// batch is done.
func (l *Loader) LoadAll() {
	for _, scheduled := range l.schedule {
		if err := l.loadModule(scheduled); err != nil {
			l.logger.Error("Module could not be loaded",
				"module", scheduled.Descriptor.Name, "error", err)
		}
	}
	l.closePackages()
}

// closePackages releases every package still held open and resets the table.
func (l *Loader) closePackages() {
	for name, pkg := range l.packages {
		if err := pkg.Close(); err != nil {
			l.logger.Debug("Closing module package failed", "module", name, "error", err)
		}
	}
	l.packages = make(map[string]*ModulePackage)
}

// loadModule runs one module through instantiation, metadata population,
// version validation, the load hook, registration, data directory creation
// and tab registration. All steps must complete or the module is abandoned.
func (l *Loader) loadModule(scheduled ScheduledModule) error {
	desc := scheduled.Descriptor
	l.logger.Info("Loading module", "module", desc.Name, "loadOrder", scheduled.LoadOrder)

	if l.registry.Get(desc.Name) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, desc.Name)
	}

	ctor, err := l.loadSpace.Resolve(desc.MainClass)
	if err != nil {
		return err
	}
	instance := newModuleInstance(ctor())

	if desc.Description == "" {
		return fmt.Errorf("%w: module %s has no description", ErrDescriptorIncomplete, desc.Name)
	}
	instance.populateRequired(desc.Name, desc.Description, desc.Version, desc.Authors)

	l.populateOptional(instance, desc)
	l.checkAPIVersion(desc)

	instance.module.OnLoad()
	instance.setState(StateLoaded)

	if err := l.registry.Add(instance); err != nil {
		return err
	}

	dataDir := filepath.Join(l.cfg.DataDir, desc.Name)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		l.logger.Error("Could not create module data directory", "module", desc.Name, "dir", dataDir, "error", err)
	} else {
		instance.setDataDir(dataDir)
	}

	l.registry.bus.Publish(NewEvent(EventTypeModuleLoad).
		Set("module", desc.Name).
		Set("version", desc.Version).
		Set("description", desc.Description).
		Set("mainClass", desc.MainClass).
		Set("preferredScope", instance.PreferredScope().String()).
		Set("storesSensitiveData", instance.StoresSensitiveData()).
		Set("usesEncryption", instance.UsesEncryption()).
		Set("dataFolder", instance.DataDir()))

	l.registerTab(instance, desc)

	l.shutdown.Register(instance.Disable)
	return nil
}

// populateOptional applies the best-effort descriptor fields. A missing
// minimum API version is a warning. An unknown preferred scope aborts the
// optional population at the scope field: the module keeps default scope and
// no tab binding, but still proceeds to load.
func (l *Loader) populateOptional(instance *ModuleInstance, desc *ModuleDescriptor) {
	if desc.MinAPIVersion == "" {
		l.logger.Warn("Module does not request a minimum API version; this is recommended, as the API may change",
			"module", desc.Name)
	}

	if desc.ScopeErr != nil {
		l.logger.Error("Module declared an illegal scope, loading with defaults",
			"module", desc.Name, "error", desc.ScopeErr)
		instance.populateOptional(desc.MinAPIVersion, desc.StoresSensitiveData, desc.UsesEncryption, ScopeServer, nil)
		return
	}

	var tab *TabBinding
	if desc.Tab != nil && desc.Tab.HasTab {
		if pkg, ok := l.packages[desc.Name]; ok {
			if _, hasEntry := pkg.TabulaDescriptor(); hasEntry {
				tab = desc.Tab
			} else {
				l.logger.Warn("Module declares a tab but its package has no tab descriptor entry", "module", desc.Name)
			}
		}
	}
	instance.populateOptional(desc.MinAPIVersion, desc.StoresSensitiveData, desc.UsesEncryption, desc.PreferredScope, tab)
}

// checkAPIVersion warns when a module requests a newer host API than this
// host provides. The check is advisory; loading continues either way.
func (l *Loader) checkAPIVersion(desc *ModuleDescriptor) {
	if desc.MinAPIVersion == "" {
		return
	}
	cmp, err := compareVersions(desc.MinAPIVersion, l.cfg.HostVersion)
	if err != nil {
		l.logger.Warn("Module requests an unparseable minimum API version",
			"module", desc.Name, "minAPIVersion", desc.MinAPIVersion, "error", err)
		return
	}
	if cmp > 0 {
		l.logger.Warn("Module requires a newer host API; expect weird behavior",
			"module", desc.Name, "minAPIVersion", desc.MinAPIVersion, "hostVersion", l.cfg.HostVersion)
	}
}

// registerTab hands the module's tab descriptor to the Tabula collaborator.
// Failures are logged and never abort the load.
func (l *Loader) registerTab(instance *ModuleInstance, desc *ModuleDescriptor) {
	tab := instance.TabBinding()
	if tab == nil {
		return
	}
	pkg, ok := l.packages[desc.Name]
	if !ok {
		return
	}
	payload, ok := pkg.TabulaDescriptor()
	if !ok {
		return
	}
	l.logger.Info("Registering module tab", "module", desc.Name)
	if err := l.tabula.CreateTab(desc.Name, string(payload), tab.ViewPermission, tab.ShortName); err != nil {
		l.logger.Error("Module tab could not be registered", "module", desc.Name, "error", err)
	}
}

// EnableAll runs the enable batch in schedule order: command registration,
// event registration, scheduled task registration, then the enable hook, for
// every module that survived LoadAll. Finally the task runner starts.
func (l *Loader) EnableAll() {
	for _, scheduled := range l.schedule {
		instance := l.registry.Get(scheduled.Descriptor.Name)
		if instance == nil {
			continue // abandoned during LoadAll
		}

		if provider, ok := instance.module.(CommandProvider); ok {
			provider.OnCreateCommands()
		}
		if definer, ok := instance.module.(EventDefiner); ok {
			definer.OnDefineEvents(l.registry.bus)
		}
		if schedulable, ok := instance.module.(Schedulable); ok {
			if err := l.registry.tasks.AddModuleTasks(instance.Name(), schedulable.ScheduledTasks()); err != nil {
				l.logger.Error("Module task could not be scheduled", "module", instance.Name(), "error", err)
			}
		}

		instance.module.OnEnable()
		instance.setState(StateEnabled)
		l.registry.bus.Publish(NewEvent(EventTypeModuleEnable).Set("module", instance.Name()))
		l.logger.Info("Enabled module", "module", instance.Name())
	}
	l.registry.tasks.Start()
}
