package graph

import "strings"

// DetectCycles checks the requires subgraph (restricted to edges whose
// endpoints both exist as nodes) for cycles by attempting a deterministic
// full ordering of the graph.
//
// On success it returns an empty slice. On failure it returns exactly one
// cycle: the one the ordering stalled on, extracted from the unorderable
// remainder. This is deliberately not an enumeration of every cycle in the
// graph; fixing the reported cycle and re-running is the intended loop.
// Use [CyclesForCard] to enumerate cycles through a specific card.
func DetectCycles(g *DependencyGraph) [][]string {
	// Kahn's algorithm over prerequisite edges, processing cards in
	// insertion order for deterministic results. Here the edge direction
	// is card -> prerequisite, so a card is "ready" once all its
	// still-unordered prerequisites are gone.
	ids := g.NodeIDs()
	remaining := make(map[string]int, len(ids)) // unresolved prereq count
	dependents := make(map[string][]string, len(ids))
	for _, id := range ids {
		for _, prereq := range g.Prerequisites(id) {
			if g.HasNode(prereq) {
				remaining[id]++
				dependents[prereq] = append(dependents[prereq], id)
			}
		}
	}

	queue := make([]string, 0, len(ids))
	for _, id := range ids {
		if remaining[id] == 0 {
			queue = append(queue, id)
		}
	}

	ordered := make(map[string]bool, len(ids))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		ordered[curr] = true

		for _, dep := range dependents[curr] {
			remaining[dep]--
			if remaining[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(ordered) == len(ids) {
		return [][]string{}
	}
	return [][]string{extractCycle(g, ids, ordered)}
}

// extractCycle walks prerequisite edges inside the unorderable remainder
// until a node repeats, then returns the loop. Every node left over by
// Kahn's algorithm has at least one unordered prerequisite, so the walk
// cannot escape the remainder and must close a loop.
func extractCycle(g *DependencyGraph, ids []string, ordered map[string]bool) []string {
	var start string
	for _, id := range ids {
		if !ordered[id] {
			start = id
			break
		}
	}

	pos := make(map[string]int)
	path := []string{}
	curr := start
	for {
		if at, seen := pos[curr]; seen {
			return path[at:]
		}
		pos[curr] = len(path)
		path = append(path, curr)

		for _, prereq := range g.Prerequisites(curr) {
			if g.HasNode(prereq) && !ordered[prereq] {
				curr = prereq
				break
			}
		}
	}
}

// CyclesForCard reports every distinct requires cycle that passes through
// cardID, using a depth-first search rooted at the card with an explicit
// recursion stack. Unlike [DetectCycles] this never scans the whole graph,
// which keeps interactive drill-down cheap on large vaults.
//
// Returns an empty slice when cardID is unknown or participates in no
// cycle.
func CyclesForCard(g *DependencyGraph, cardID string) [][]string {
	cycles := [][]string{}
	if !g.HasNode(cardID) {
		return cycles
	}

	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	path := []string{}
	seen := make(map[string]bool) // dedupes identical cycle paths

	var dfs func(id string)
	dfs = func(id string) {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		for _, prereq := range g.Prerequisites(id) {
			if !g.HasNode(prereq) {
				continue
			}
			if !visited[prereq] {
				dfs(prereq)
			} else if onStack[prereq] {
				// Back edge: the cycle is the path suffix starting at
				// the revisited node.
				start := 0
				for i, p := range path {
					if p == prereq {
						start = i
						break
					}
				}
				cycle := append([]string(nil), path[start:]...)
				if contains(cycle, cardID) {
					key := joinKey(cycle)
					if !seen[key] {
						seen[key] = true
						cycles = append(cycles, cycle)
					}
				}
			}
		}

		path = path[:len(path)-1]
		onStack[id] = false
	}

	dfs(cardID)
	return cycles
}

func joinKey(ids []string) string {
	return strings.Join(ids, "\x00")
}
