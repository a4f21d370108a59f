package graph

import (
	"testing"
)

func TestDetectCycles(t *testing.T) {
	tests := []struct {
		name      string
		build     func() *DependencyGraph
		wantEmpty bool
		wantIn    []string // every listed id must be in the reported cycle
	}{
		{
			name:      "EmptyGraph",
			build:     New,
			wantEmpty: true,
		},
		{
			name:      "AcyclicChain",
			build:     func() *DependencyGraph { return chain("A", "B", "C") },
			wantEmpty: true,
		},
		{
			name: "DiamondIsAcyclic",
			build: func() *DependencyGraph {
				g := New()
				for _, id := range []string{"a", "b", "c", "d"} {
					g.AddNode(node(id))
				}
				g.AddRequires("a", "b")
				g.AddRequires("a", "c")
				g.AddRequires("b", "d")
				g.AddRequires("c", "d")
				return g
			},
			wantEmpty: true,
		},
		{
			name:   "TwoCycle",
			build:  func() *DependencyGraph { return chain("A", "B", "A") },
			wantIn: []string{"A", "B"},
		},
		{
			name: "ThreeCycleWithTail",
			build: func() *DependencyGraph {
				g := chain("t", "x", "y", "z")
				g.AddRequires("z", "x")
				return g
			},
			wantIn: []string{"x", "y", "z"},
		},
		{
			name: "GhostEdgesDoNotFormCycles",
			build: func() *DependencyGraph {
				// a requires ghost, ghost is declared to require a via a
				// second record-less edge; with no ghost node the edge
				// pair must be ignored entirely.
				g := New()
				g.AddNode(node("a"))
				g.AddRequires("a", "ghost")
				g.AddRequires("ghost", "a")
				return g
			},
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cycles := DetectCycles(tt.build())
			if tt.wantEmpty {
				if len(cycles) != 0 {
					t.Fatalf("DetectCycles() = %v, want none", cycles)
				}
				return
			}
			if len(cycles) != 1 {
				t.Fatalf("DetectCycles() = %v, want exactly one reported cycle", cycles)
			}
			for _, id := range tt.wantIn {
				if !contains(cycles[0], id) {
					t.Errorf("cycle %v missing %s", cycles[0], id)
				}
			}
		})
	}
}

func TestDetectCyclesDeterministic(t *testing.T) {
	build := func() *DependencyGraph {
		g := chain("a", "b", "a")
		g.AddNode(node("c"))
		g.AddNode(node("d"))
		g.AddRequires("c", "d")
		g.AddRequires("d", "c")
		return g
	}

	first := DetectCycles(build())
	for range 20 {
		if got := DetectCycles(build()); !equalCycles(got, first) {
			t.Fatalf("DetectCycles() unstable: %v vs %v", got, first)
		}
	}
}

func equalCycles(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if joinKey(a[i]) != joinKey(b[i]) {
			return false
		}
	}
	return true
}

func TestCyclesForCard(t *testing.T) {
	tests := []struct {
		name       string
		build      func() *DependencyGraph
		card       string
		wantCycles int
	}{
		{
			name:       "UnknownCard",
			build:      func() *DependencyGraph { return chain("A", "B") },
			card:       "missing",
			wantCycles: 0,
		},
		{
			name:       "NoCycle",
			build:      func() *DependencyGraph { return chain("A", "B", "C") },
			card:       "A",
			wantCycles: 0,
		},
		{
			name:       "SelfThroughTwoCycle",
			build:      func() *DependencyGraph { return chain("A", "B", "A") },
			card:       "A",
			wantCycles: 1,
		},
		{
			name: "TwoDistinctCyclesThroughCard",
			build: func() *DependencyGraph {
				g := New()
				for _, id := range []string{"hub", "l", "r"} {
					g.AddNode(node(id))
				}
				g.AddRequires("hub", "l")
				g.AddRequires("l", "hub")
				g.AddRequires("hub", "r")
				g.AddRequires("r", "hub")
				return g
			},
			card:       "hub",
			wantCycles: 2,
		},
		{
			name: "CycleNotThroughCardIgnored",
			build: func() *DependencyGraph {
				// center requires into a b<->c loop it is not part of.
				g := New()
				for _, id := range []string{"center", "b", "c"} {
					g.AddNode(node(id))
				}
				g.AddRequires("center", "b")
				g.AddRequires("b", "c")
				g.AddRequires("c", "b")
				return g
			},
			card:       "center",
			wantCycles: 0,
		},
		{
			name: "GhostPrereqSkipped",
			build: func() *DependencyGraph {
				g := chain("A", "B", "A")
				g.AddRequires("A", "ghost")
				return g
			},
			card:       "A",
			wantCycles: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cycles := CyclesForCard(tt.build(), tt.card)
			if len(cycles) != tt.wantCycles {
				t.Fatalf("CyclesForCard(%s) = %v, want %d cycle(s)", tt.card, cycles, tt.wantCycles)
			}
			for _, cycle := range cycles {
				if !contains(cycle, tt.card) {
					t.Errorf("cycle %v does not include queried card %s", cycle, tt.card)
				}
			}
		})
	}
}
