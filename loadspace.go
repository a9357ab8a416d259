package modhost

import (
	"fmt"
	"sort"
	"sync"
)

// ConstructorCatalog maps main-entry identifiers to module constructors.
// Module packages link their code into the host binary and register their
// main entry here, usually from an init function; this is the compiled-in
// analogue of resolving a class by name inside a shared classloader.
type ConstructorCatalog struct {
	mu    sync.RWMutex
	ctors map[string]ModuleConstructor
}

// NewConstructorCatalog creates an empty catalog.
func NewConstructorCatalog() *ConstructorCatalog {
	return &ConstructorCatalog{ctors: make(map[string]ModuleConstructor)}
}

// Register associates a main-entry identifier with a constructor. A later
// registration for the same identifier replaces the earlier one.
func (c *ConstructorCatalog) Register(mainClass string, ctor ModuleConstructor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctors[mainClass] = ctor
}

// lookup returns the constructor for an identifier, or nil.
func (c *ConstructorCatalog) lookup(mainClass string) ModuleConstructor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ctors[mainClass]
}

// defaultCatalog backs the package-level Register convenience, mirroring the
// database/sql driver registration idiom.
var defaultCatalog = NewConstructorCatalog()

// Register registers a module constructor in the default catalog.
func Register(mainClass string, ctor ModuleConstructor) {
	defaultCatalog.Register(mainClass, ctor)
}

// DefaultCatalog returns the catalog used by Register.
func DefaultCatalog() *ConstructorCatalog { return defaultCatalog }

// LoadSpace is the shared symbol-resolution boundary spanning every
// discovered module package. It is constructed exactly once per discovery
// pass, after all candidate packages are known and before any module is
// instantiated, and is immutable afterwards: every candidate package becomes
// a member up front, even if its module later fails validation, so
// cross-module references resolve regardless of load outcome.
type LoadSpace struct {
	members []string
	ctors   map[string]ModuleConstructor
}

// NewLoadSpace builds the load space for one discovery pass. It snapshots
// the catalog so that constructors registered after discovery do not leak
// into an already-established pass.
func NewLoadSpace(packages []*ModulePackage, catalog *ConstructorCatalog) *LoadSpace {
	if catalog == nil {
		catalog = defaultCatalog
	}

	ls := &LoadSpace{ctors: make(map[string]ModuleConstructor)}
	for _, pkg := range packages {
		ls.members = append(ls.members, pkg.BaseName())
	}
	sort.Strings(ls.members)

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	for mainClass, ctor := range catalog.ctors {
		ls.ctors[mainClass] = ctor
	}

	return ls
}

// Resolve returns the constructor for a main-entry identifier. Unknown
// identifiers fail with ErrInvalidMainEntry.
func (ls *LoadSpace) Resolve(mainClass string) (ModuleConstructor, error) {
	ctor, ok := ls.ctors[mainClass]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMainEntry, mainClass)
	}
	return ctor, nil
}

// Members returns the package names spanned by this load space, sorted.
func (ls *LoadSpace) Members() []string {
	out := make([]string, len(ls.members))
	copy(out, ls.members)
	return out
}
