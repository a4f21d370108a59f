package graph

import (
	"testing"
)

func idsOf(nodes []CardNode) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func idSet(nodes []CardNode) map[string]bool {
	set := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		set[n.ID] = true
	}
	return set
}

func TestLocalGraph(t *testing.T) {
	// X requires Y and Z; Y requires W; V requires X; R declared related.
	build := func() *DependencyGraph {
		g := New()
		for _, id := range []string{"X", "Y", "Z", "W", "V", "R"} {
			g.AddNode(node(id))
		}
		g.AddRequires("X", "Y")
		g.AddRequires("X", "Z")
		g.AddRequires("Y", "W")
		g.AddRequires("V", "X")
		g.AddRelated("X", "R")
		return g
	}

	t.Run("UnknownCenter", func(t *testing.T) {
		if _, ok := LocalGraph(build(), "missing", 2, 150); ok {
			t.Error("LocalGraph() ok = true for unknown center")
		}
	})

	t.Run("DepthOne", func(t *testing.T) {
		res, ok := LocalGraph(build(), "X", 1, 150)
		if !ok {
			t.Fatal("LocalGraph() ok = false")
		}
		prereqs := idSet(res.Prerequisites)
		if len(prereqs) != 2 || !prereqs["Y"] || !prereqs["Z"] {
			t.Errorf("depth-1 prerequisites = %v, want exactly {Y Z}", idsOf(res.Prerequisites))
		}
		if prereqs["W"] {
			t.Error("depth-1 prerequisites include W, which is two hops away")
		}
		deps := idSet(res.Dependents)
		if len(deps) != 1 || !deps["V"] {
			t.Errorf("depth-1 dependents = %v, want exactly {V}", idsOf(res.Dependents))
		}
	})

	t.Run("DepthTwoReachesTransitive", func(t *testing.T) {
		res, _ := LocalGraph(build(), "X", 2, 150)
		if prereqs := idSet(res.Prerequisites); !prereqs["W"] {
			t.Errorf("depth-2 prerequisites = %v, want W included", idsOf(res.Prerequisites))
		}
	})

	t.Run("RelatedIsDirectOnly", func(t *testing.T) {
		g := build()
		g.AddNode(node("R2"))
		g.AddRelated("R", "R2")

		res, _ := LocalGraph(g, "X", 2, 150)
		related := idSet(res.Related)
		if len(related) != 1 || !related["R"] {
			t.Errorf("related = %v, want exactly {R} (no transitive walk)", idsOf(res.Related))
		}
	})

	t.Run("CenterProvenance", func(t *testing.T) {
		res, _ := LocalGraph(build(), "X", 1, 150)
		if res.Center.ID != "X" || res.Center.FilePath == "" {
			t.Errorf("center = %+v, want resolved X node", res.Center)
		}
	})
}

func TestLocalGraphGhostTargetsOmitted(t *testing.T) {
	g := New()
	g.AddNode(node("C"))
	g.AddRequires("C", "ghost")

	res, ok := LocalGraph(g, "C", 2, 150)
	if !ok {
		t.Fatal("LocalGraph() ok = false")
	}
	if len(res.Prerequisites) != 0 {
		t.Errorf("prerequisites = %v, want ghost silently omitted", idsOf(res.Prerequisites))
	}
	if refs := g.UnresolvedRefs()["C"]; !contains(refs, "ghost") {
		t.Errorf("UnresolvedRefs()[C] = %v, want ghost reported", refs)
	}
}

// TestLocalGraphSoftCap pins the soft maxNodes semantics: the bound is
// checked when a walk recurses, not per sibling, so one wide level may
// overshoot the cap while the next level is blocked.
func TestLocalGraphSoftCap(t *testing.T) {
	g := New()
	g.AddNode(node("center"))
	wide := []string{"p1", "p2", "p3", "p4", "p5"}
	for _, id := range wide {
		g.AddNode(node(id))
		g.AddRequires("center", id)
	}
	// A second level below the last sibling: by the time p5's recursion
	// starts, the accumulated set is past the cap, so deep is blocked.
	g.AddNode(node("deep"))
	g.AddRequires("p5", "deep")

	res, _ := LocalGraph(g, "center", 5, 3)

	prereqs := idSet(res.Prerequisites)
	for _, id := range wide {
		if !prereqs[id] {
			t.Errorf("sibling %s missing: the cap must not cut a level mid-way", id)
		}
	}
	if prereqs["deep"] {
		t.Error("deep included: recursion past the cap must be blocked")
	}
}

func TestLocalGraphIncludesCenterCycles(t *testing.T) {
	g := chain("A", "B", "A")
	res, _ := LocalGraph(g, "A", 2, 150)
	if len(res.Cycles) != 1 {
		t.Fatalf("Cycles = %v, want the A/B loop", res.Cycles)
	}
	if !contains(res.Cycles[0], "A") || !contains(res.Cycles[0], "B") {
		t.Errorf("cycle = %v, want both A and B", res.Cycles[0])
	}
}
