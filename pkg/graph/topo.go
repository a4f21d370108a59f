package graph

// TopoResult is the outcome of a topological sort attempt.
// Ordering never fails: when the requested subset contains a cycle, Order
// holds the requested ids in their original order (not a valid topological
// order) and Cyclic is set so callers can surface a warning.
type TopoResult struct {
	Order  []string
	Cyclic bool
}

// TopoSort orders a subset of cards so that every prerequisite precedes
// its dependents. Only requires edges with both endpoints inside the
// requested subset are considered; ids not present in the graph are
// silently excluded. Duplicate ids are collapsed to their first occurrence.
//
// The sort is Kahn's algorithm with a FIFO ready queue seeded in input
// order, so ties between independently-orderable cards break by the order
// in which their last blocking prerequisite resolves.
func TopoSort(g *DependencyGraph, ids []string) TopoResult {
	subset := make([]string, 0, len(ids))
	inSubset := make(map[string]bool, len(ids))
	for _, id := range ids {
		if g.HasNode(id) && !inSubset[id] {
			inSubset[id] = true
			subset = append(subset, id)
		}
	}

	// In-degree within the subset: the number of prerequisites a card is
	// still blocked on. Edges leaving the subset do not count.
	inDegree := make(map[string]int, len(subset))
	dependents := make(map[string][]string, len(subset))
	for _, id := range subset {
		for _, prereq := range g.Prerequisites(id) {
			if inSubset[prereq] {
				inDegree[id]++
				dependents[prereq] = append(dependents[prereq], id)
			}
		}
	}

	queue := make([]string, 0, len(subset))
	for _, id := range subset {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(subset))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)

		for _, dep := range dependents[curr] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) < len(subset) {
		return TopoResult{Order: subset, Cyclic: true}
	}
	return TopoResult{Order: order}
}
