package modhost

import "sync"

// TabulaRegistry is the external UI-tab registration collaborator. The
// loader hands it the raw tabula.json payload of a module that declares a
// tab; the host never interprets the descriptor's contents.
type TabulaRegistry interface {
	// CreateTab registers one UI tab for a module.
	CreateTab(moduleName, tabDescriptorJSON, permission, shortName string) error
}

// RegisteredTab records one CreateTab call.
type RegisteredTab struct {
	ModuleName     string
	DescriptorJSON string
	Permission     string
	ShortName      string
}

// LoggingTabulaRegistry is the default TabulaRegistry: it records and logs
// registrations. Hosts with a real UI plug in their own implementation.
type LoggingTabulaRegistry struct {
	mu     sync.Mutex
	tabs   []RegisteredTab
	logger Logger
}

// NewLoggingTabulaRegistry creates the default collaborator.
func NewLoggingTabulaRegistry(logger Logger) *LoggingTabulaRegistry {
	return &LoggingTabulaRegistry{logger: logger}
}

// CreateTab implements TabulaRegistry.
func (t *LoggingTabulaRegistry) CreateTab(moduleName, tabDescriptorJSON, permission, shortName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tabs = append(t.tabs, RegisteredTab{
		ModuleName:     moduleName,
		DescriptorJSON: tabDescriptorJSON,
		Permission:     permission,
		ShortName:      shortName,
	})
	t.logger.Info("Registered module tab", "module", moduleName, "shortName", shortName, "permission", permission)
	return nil
}

// Tabs returns the recorded registrations.
func (t *LoggingTabulaRegistry) Tabs() []RegisteredTab {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]RegisteredTab, len(t.tabs))
	copy(out, t.tabs)
	return out
}
