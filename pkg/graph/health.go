package graph

// Report is a whole-graph health summary for diagnostic and CLI use:
// how big the graph is, where it is broken (cycles, dangling references)
// and how it clusters (components, isolated cards).
type Report struct {
	Nodes      int                 `json:"nodes"`
	Edges      int                 `json:"edges"`
	Cycles     [][]string          `json:"cycles"`
	Isolated   []string            `json:"isolated"`
	Unresolved map[string][]string `json:"unresolved"`
	Components [][]string          `json:"components"`

	// Roots are ready-to-learn cards: no prerequisites of their own but
	// required by at least one other card. Natural starting points.
	Roots []string `json:"roots"`
}

// Health computes a full diagnostic report over the graph.
func Health(g *DependencyGraph) Report {
	return Report{
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		Cycles:     DetectCycles(g),
		Isolated:   IsolatedNodes(g),
		Unresolved: g.UnresolvedRefs(),
		Components: ConnectedComponents(g),
		Roots:      rootCards(g),
	}
}

// IsolatedNodes returns the ids of cards with no resolvable edges at all:
// nothing required, nothing requiring them, and no related links in either
// direction. Returned in node-insertion order.
func IsolatedNodes(g *DependencyGraph) []string {
	neighbors := neighborIndex(g)
	isolated := []string{}
	for _, id := range g.NodeIDs() {
		if len(neighbors[id]) == 0 {
			isolated = append(isolated, id)
		}
	}
	return isolated
}

// ConnectedComponents returns the connected components of the graph,
// treating requires and related edges as undirected and ignoring edges
// whose other endpoint is not a node. Components and their members are in
// node-insertion order. Single-card components are included.
func ConnectedComponents(g *DependencyGraph) [][]string {
	neighbors := neighborIndex(g)
	assigned := make(map[string]bool, g.NodeCount())
	components := [][]string{}

	for _, start := range g.NodeIDs() {
		if assigned[start] {
			continue
		}
		component := []string{}
		stack := []string{start}
		assigned[start] = true
		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, curr)
			for _, next := range neighbors[curr] {
				if !assigned[next] {
					assigned[next] = true
					stack = append(stack, next)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

// neighborIndex builds an undirected adjacency over all edges whose both
// endpoints exist as nodes.
func neighborIndex(g *DependencyGraph) map[string][]string {
	neighbors := make(map[string][]string, g.NodeCount())
	link := func(a, b string) {
		if !g.HasNode(a) || !g.HasNode(b) {
			return
		}
		if !contains(neighbors[a], b) {
			neighbors[a] = append(neighbors[a], b)
		}
		if !contains(neighbors[b], a) {
			neighbors[b] = append(neighbors[b], a)
		}
	}
	for _, id := range g.NodeIDs() {
		for _, prereq := range g.Prerequisites(id) {
			link(id, prereq)
		}
		for _, rel := range g.Related(id) {
			link(id, rel)
		}
	}
	return neighbors
}

func rootCards(g *DependencyGraph) []string {
	roots := []string{}
	for _, id := range g.NodeIDs() {
		if len(g.Prerequisites(id)) == 0 && len(g.Dependents(id)) > 0 {
			roots = append(roots, id)
		}
	}
	return roots
}
