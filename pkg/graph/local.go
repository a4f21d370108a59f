package graph

// LocalGraphResult is the bounded neighborhood around one card, used for
// interactive inspection. All node slices are resolved copies; ids that
// never materialized as nodes are silently absent.
type LocalGraphResult struct {
	Center        CardNode
	Prerequisites []CardNode // transitive, up to the requested depth
	Dependents    []CardNode // transitive, up to the requested depth
	Related       []CardNode // direct neighbors only
	Cycles        [][]string // requires cycles passing through the center
}

// LocalGraph extracts the subgraph around centerID: prerequisites and
// dependents walked transitively up to depth hops, related cards one hop
// only, plus any requires cycles through the center. Returns ok=false when
// centerID is not a node.
//
// maxNodes is a soft bound. It is checked when a walk recurses into a
// card, not per sibling, so a single card with many direct prerequisites
// can push the accumulated set past the limit before the next level is
// cut off. Interactive views tolerate the overshoot; tightening the bound
// would change which neighbors users see.
func LocalGraph(g *DependencyGraph, centerID string, depth, maxNodes int) (LocalGraphResult, bool) {
	center, ok := g.Node(centerID)
	if !ok {
		return LocalGraphResult{}, false
	}

	prereqs := walkEdges(g, g.Prerequisites, centerID, 1, depth, maxNodes, newAccumulator())
	dependents := walkEdges(g, g.Dependents, centerID, 1, depth, maxNodes, newAccumulator())

	var related []CardNode
	for _, relID := range g.Related(centerID) {
		if n, exists := g.Node(relID); exists {
			related = append(related, n)
		}
	}

	return LocalGraphResult{
		Center:        center,
		Prerequisites: resolve(g, prereqs.order),
		Dependents:    resolve(g, dependents.order),
		Related:       related,
		Cycles:        CyclesForCard(g, centerID),
	}, true
}

// accumulator is the visited set threaded through a bounded walk, with an
// order slice so results stay deterministic.
type accumulator struct {
	seen  map[string]bool
	order []string
}

func newAccumulator() *accumulator {
	return &accumulator{seen: make(map[string]bool)}
}

func (a *accumulator) add(id string) {
	a.seen[id] = true
	a.order = append(a.order, id)
}

// walkEdges follows next() edges outward from id, accumulating every
// resolvable target within maxDepth hops. The depth and size bounds are
// evaluated once per recursive call; all siblings at an admitted level are
// added before the bound is consulted again.
func walkEdges(g *DependencyGraph, next func(string) []string, id string, depth, maxDepth, maxNodes int, acc *accumulator) *accumulator {
	if depth > maxDepth || len(acc.order) >= maxNodes {
		return acc
	}
	for _, target := range next(id) {
		if !acc.seen[target] && g.HasNode(target) {
			acc.add(target)
			walkEdges(g, next, target, depth+1, maxDepth, maxNodes, acc)
		}
	}
	return acc
}

func resolve(g *DependencyGraph, ids []string) []CardNode {
	var nodes []CardNode
	for _, id := range ids {
		if n, ok := g.Node(id); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
