package graph

// MaxTitleLen is the display-safety bound applied to card titles.
// Longer titles are truncated by the builder before a node is stored.
const MaxTitleLen = 100

// CardNode is a flashcard as it appears in the dependency graph: a stable
// identifier plus enough provenance to point a user back at the note that
// defines it. Nodes are plain values; the graph hands out copies, never
// references into its own storage.
type CardNode struct {
	ID       string // Stable card identifier (unique per graph)
	Title    string // Display title, at most MaxTitleLen characters
	FilePath string // Note file the card was extracted from
	Line     int    // Line of the card entry within the file
}

// DependencyGraph models prerequisite ("requires") and association
// ("related") edges between flashcards. Edges are stored by source id and
// may reference ids that never materialize as nodes; such targets surface
// through [DependencyGraph.UnresolvedRefs] rather than failing any call.
//
// The graph is rebuilt from scratch on every scan. It is not safe for
// concurrent use.
type DependencyGraph struct {
	nodes map[string]CardNode
	order []string // node ids in first-insertion order

	requires   map[string][]string // card id -> prerequisite ids
	dependents map[string][]string // prerequisite id -> ids that require it
	related    map[string][]string // card id -> related ids

	edgeCount int
}

// New creates an empty dependency graph.
func New() *DependencyGraph {
	return &DependencyGraph{
		nodes:      make(map[string]CardNode),
		requires:   make(map[string][]string),
		dependents: make(map[string][]string),
		related:    make(map[string][]string),
	}
}

// AddNode inserts or replaces the node with n.ID. Duplicate ids are
// last-write-wins: the stored node is replaced but its position in the
// insertion order is kept.
func (g *DependencyGraph) AddNode(n CardNode) {
	if _, exists := g.nodes[n.ID]; !exists {
		g.order = append(g.order, n.ID)
	}
	g.nodes[n.ID] = n
}

// AddRequires records that card requires prerequisite. The edge is stored
// even if neither endpoint exists as a node yet; adding the same edge twice
// is a no-op.
func (g *DependencyGraph) AddRequires(card, prerequisite string) {
	if contains(g.requires[card], prerequisite) {
		return
	}
	g.requires[card] = append(g.requires[card], prerequisite)
	g.dependents[prerequisite] = append(g.dependents[prerequisite], card)
	g.edgeCount++
}

// AddRelated records a directed related edge from card to other.
// Related edges are stored exactly as declared; no symmetric counterpart
// is created. Adding the same edge twice is a no-op.
func (g *DependencyGraph) AddRelated(card, other string) {
	if contains(g.related[card], other) {
		return
	}
	g.related[card] = append(g.related[card], other)
	g.edgeCount++
}

// Node returns the node with the given id and whether it exists.
func (g *DependencyGraph) Node(id string) (CardNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id exists as a node in the graph.
func (g *DependencyGraph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in first-insertion order.
func (g *DependencyGraph) Nodes() []CardNode {
	nodes := make([]CardNode, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeIDs returns all node ids in first-insertion order.
func (g *DependencyGraph) NodeIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// NodeCount returns the number of nodes in the graph.
func (g *DependencyGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct requires and related edges.
func (g *DependencyGraph) EdgeCount() int { return g.edgeCount }

// Prerequisites returns the ids that id requires, in edge-insertion order.
// The returned slice is a copy. Targets are returned whether or not they
// exist as nodes; callers that need resolved nodes must filter.
func (g *DependencyGraph) Prerequisites(id string) []string {
	return cloneIDs(g.requires[id])
}

// Dependents returns the ids that require id, in edge-insertion order.
func (g *DependencyGraph) Dependents(id string) []string {
	return cloneIDs(g.dependents[id])
}

// Related returns the ids declared related by id, in edge-insertion order.
func (g *DependencyGraph) Related(id string) []string {
	return cloneIDs(g.related[id])
}

// UnresolvedRefs returns, for each card that references at least one id
// with no corresponding node, the list of those dangling ids. Referencing
// a missing card is diagnostic data, never an error.
func (g *DependencyGraph) UnresolvedRefs() map[string][]string {
	unresolved := make(map[string][]string)
	collect := func(adj map[string][]string) {
		for source, targets := range adj {
			for _, target := range targets {
				if !g.HasNode(target) && !contains(unresolved[source], target) {
					unresolved[source] = append(unresolved[source], target)
				}
			}
		}
	}
	collect(g.requires)
	collect(g.related)
	return unresolved
}

func cloneIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
