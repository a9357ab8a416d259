package modhost

import (
	"fmt"
	"strings"
)

// ScheduledModule is a descriptor with its assigned load-order index. Indices
// are zero-based, dense and strictly increasing in schedule order.
type ScheduledModule struct {
	Descriptor *ModuleDescriptor
	LoadOrder  int
}

// Schedule runs Kahn's algorithm over the graph and returns the modules in a
// valid, deterministic load order.
//
// The ready queue is seeded with all zero in-degree modules in discovery
// order and consumed FIFO; modules whose in-degree drops to zero are appended
// in edge-insertion order. The same descriptor set and constraint list
// therefore always produces the same schedule.
//
// If any constraint cycle exists the whole schedule fails with
// ErrCyclicDependency naming the modules caught in the cycle; no partial
// schedule is returned.
func (g *LoadOrderGraph) Schedule() ([]ScheduledModule, error) {
	inDegree := make(map[string]int, len(g.inDegree))
	for name, deg := range g.inDegree {
		inDegree[name] = deg
	}

	var queue []string
	for _, name := range g.order {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	scheduled := make([]ScheduledModule, 0, len(g.order))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		scheduled = append(scheduled, ScheduledModule{
			Descriptor: g.descriptors[name],
			LoadOrder:  len(scheduled),
		})

		for _, dependent := range g.adjacency[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(scheduled) != len(g.order) {
		var cyclic []string
		for _, name := range g.order {
			if inDegree[name] > 0 {
				cyclic = append(cyclic, name)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrCyclicDependency, strings.Join(cyclic, ", "))
	}

	return scheduled, nil
}
