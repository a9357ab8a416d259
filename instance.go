package modhost

import "sync"

// ModuleInstance is a live module: the running Module implementation plus a
// mutable copy of its descriptor metadata and the current lifecycle state.
// Once registered, the Registry owns the instance exclusively; the loader
// only holds it transiently during construction.
type ModuleInstance struct {
	module Module

	mu                  sync.RWMutex
	name                string
	description         string
	version             string
	authors             []string
	dataDir             string
	minAPIVersion       string
	storesSensitiveData bool
	usesEncryption      bool
	preferredScope      SystemScope
	tab                 *TabBinding
	state               ModuleState

	disableOnce sync.Once
}

// newModuleInstance wraps a freshly constructed module.
func newModuleInstance(module Module) *ModuleInstance {
	return &ModuleInstance{module: module, state: StateInstantiated}
}

// Module returns the running module implementation.
func (m *ModuleInstance) Module() Module { return m.module }

// Name returns the module name.
func (m *ModuleInstance) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

// Description returns the module description.
func (m *ModuleInstance) Description() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.description
}

// Version returns the module version.
func (m *ModuleInstance) Version() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Authors returns the declared authors.
func (m *ModuleInstance) Authors() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.authors))
	copy(out, m.authors)
	return out
}

// DataDir returns the module's private data directory.
func (m *ModuleInstance) DataDir() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dataDir
}

// MinAPIVersion returns the requested minimum host API version, or "".
func (m *ModuleInstance) MinAPIVersion() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.minAPIVersion
}

// StoresSensitiveData reports the manifest sensitivity flag.
func (m *ModuleInstance) StoresSensitiveData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.storesSensitiveData
}

// UsesEncryption reports the manifest encryption flag.
func (m *ModuleInstance) UsesEncryption() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.usesEncryption
}

// PreferredScope returns the module's preferred execution scope.
func (m *ModuleInstance) PreferredScope() SystemScope {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.preferredScope
}

// TabBinding returns the UI-tab binding, or nil.
func (m *ModuleInstance) TabBinding() *TabBinding {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tab
}

// State returns the current lifecycle state.
func (m *ModuleInstance) State() ModuleState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// setState advances the lifecycle state.
func (m *ModuleInstance) setState(state ModuleState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

// populateRequired copies the required descriptor fields onto the instance.
func (m *ModuleInstance) populateRequired(name, description, version string, authors []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = name
	m.description = description
	m.version = version
	m.authors = append([]string(nil), authors...)
	m.state = StateConfigured
}

// populateOptional copies the best-effort descriptor fields.
func (m *ModuleInstance) populateOptional(minAPI string, sensitive, encryption bool, scope SystemScope, tab *TabBinding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minAPIVersion = minAPI
	m.storesSensitiveData = sensitive
	m.usesEncryption = encryption
	m.preferredScope = scope
	m.tab = tab
}

// setDataDir records the private data directory.
func (m *ModuleInstance) setDataDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dataDir = dir
}

// Disable runs the module's disable hook exactly once, no matter how many
// shutdown paths reach it (registry removal, signal handler, normal exit).
func (m *ModuleInstance) Disable() {
	m.disableOnce.Do(func() {
		m.module.OnDisable()
		m.setState(StateDisabled)
	})
}
