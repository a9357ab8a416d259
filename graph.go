package modhost

import "fmt"

// UnresolvedConstraint records a dependency constraint whose target name did
// not match any discovered module. The constraint contributes no edge; the
// declaring module is still scheduled.
type UnresolvedConstraint struct {
	Module     string
	Dependency DependencyConstraint
}

func (u UnresolvedConstraint) Error() string {
	return fmt.Sprintf("%v: module %s depends on %s", ErrUnresolvedDependency, u.Module, u.Dependency.Name)
}

// Unwrap lets errors.Is match ErrUnresolvedDependency.
func (u UnresolvedConstraint) Unwrap() error { return ErrUnresolvedDependency }

// LoadOrderGraph is a directed graph over discovered modules where an edge
// A→B means A must be scheduled before B. The graph is built fresh from a
// descriptor set on every discovery pass and never mutated afterwards.
type LoadOrderGraph struct {
	order       []string // discovery order, drives tie-breaking
	descriptors map[string]*ModuleDescriptor
	adjacency   map[string][]string
	inDegree    map[string]int
	unresolved  []UnresolvedConstraint
}

// BuildLoadOrderGraph constructs the graph from the successfully parsed
// descriptors, in discovery order.
//
// Edge direction follows the declared directive: a LOAD_BEFORE constraint on
// module M referencing D creates edge D→M, so D is scheduled earlier. A
// LOAD_AFTER constraint on M referencing D creates edge M→D, scheduling M
// earlier. Constraints whose target is not among the descriptors are
// collected as unresolved and dropped; they never abort the build.
func BuildLoadOrderGraph(descriptors []*ModuleDescriptor) *LoadOrderGraph {
	g := &LoadOrderGraph{
		descriptors: make(map[string]*ModuleDescriptor, len(descriptors)),
		adjacency:   make(map[string][]string, len(descriptors)),
		inDegree:    make(map[string]int, len(descriptors)),
	}

	for _, desc := range descriptors {
		if _, seen := g.descriptors[desc.Name]; seen {
			// Duplicate names are resolved later by the loader's
			// duplicate guard; only the first descriptor shapes the graph.
			continue
		}
		g.order = append(g.order, desc.Name)
		g.descriptors[desc.Name] = desc
		g.adjacency[desc.Name] = nil
		g.inDegree[desc.Name] = 0
	}

	for _, name := range g.order {
		for _, dep := range g.descriptors[name].Dependencies {
			if _, known := g.descriptors[dep.Name]; !known {
				g.unresolved = append(g.unresolved, UnresolvedConstraint{Module: name, Dependency: dep})
				continue
			}
			switch dep.LoadPrior {
			case LoadBefore:
				g.adjacency[dep.Name] = append(g.adjacency[dep.Name], name)
				g.inDegree[name]++
			case LoadAfter:
				g.adjacency[name] = append(g.adjacency[name], dep.Name)
				g.inDegree[dep.Name]++
			}
		}
	}

	return g
}

// Len returns the number of modules in the graph.
func (g *LoadOrderGraph) Len() int { return len(g.order) }

// Unresolved returns the constraints that were dropped because their target
// is unknown. These are warning-level; callers surface them to the operator.
func (g *LoadOrderGraph) Unresolved() []UnresolvedConstraint { return g.unresolved }

// Descriptor returns the descriptor for a module name, or nil.
func (g *LoadOrderGraph) Descriptor(name string) *ModuleDescriptor { return g.descriptors[name] }
