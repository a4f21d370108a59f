package queue

import (
	"context"
	"reflect"
	"testing"

	"github.com/cardpath/cardpath/pkg/errors"
	"github.com/cardpath/cardpath/pkg/graph"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// records builds the standard fixture: M requires P1 and P2, P1 requires
// P0, plus an unrelated card U.
func records() []graph.CardRecord {
	return []graph.CardRecord{
		{ID: "M", Requires: []string{"P1", "P2"}},
		{ID: "P1", Requires: []string{"P0"}},
		{ID: "P2"},
		{ID: "P0"},
		{ID: "U"},
	}
}

func build(t *testing.T, recs []graph.CardRecord, due []string, opts Options, stats map[string]CardStats) *Result {
	t.Helper()
	var b Builder
	res, err := b.Build(context.Background(), graph.StaticSource(recs), due, opts, stats)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return res
}

func TestBuildIncludeRelatedFailsLoudly(t *testing.T) {
	var b Builder
	res, err := b.Build(context.Background(), graph.StaticSource(records()), []string{"M"}, Options{IncludeRelated: true}, nil)
	if err == nil {
		t.Fatalf("Build() = %+v, want unsupported-feature error", res)
	}
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnsupported)
	}
}

func TestBuildNoCriteriaEverythingWeak(t *testing.T) {
	res := build(t, records(), []string{"M"}, Options{Depth: 2}, nil)

	if len(res.SkippedStrong) != 0 {
		t.Errorf("SkippedStrong = %v, want empty without criteria", res.SkippedStrong)
	}
	// P0 before P1 (prerequisite order); P2 independent.
	pos := map[string]int{}
	for i, id := range res.PrereqQueue {
		pos[id] = i
	}
	for _, id := range []string{"P0", "P1", "P2"} {
		if _, ok := pos[id]; !ok {
			t.Fatalf("PrereqQueue = %v, want %s included", res.PrereqQueue, id)
		}
	}
	if pos["P0"] > pos["P1"] {
		t.Errorf("PrereqQueue = %v, want P0 before P1", res.PrereqQueue)
	}
	if !reflect.DeepEqual(res.MainQueue, []string{"M"}) {
		t.Errorf("MainQueue = %v, want [M]", res.MainQueue)
	}
}

func TestBuildDepthBoundsCollection(t *testing.T) {
	res := build(t, records(), []string{"M"}, Options{Depth: 1}, nil)

	queued := map[string]bool{}
	for _, id := range res.PrereqQueue {
		queued[id] = true
	}
	if !queued["P1"] || !queued["P2"] {
		t.Errorf("PrereqQueue = %v, want direct prerequisites", res.PrereqQueue)
	}
	if queued["P0"] {
		t.Errorf("PrereqQueue = %v, P0 is two hops away and must be excluded at depth 1", res.PrereqQueue)
	}
}

func TestBuildWeakStrongClassification(t *testing.T) {
	stats := map[string]CardStats{
		"P1": {Stability: fptr(5)},
		"P2": {Stability: fptr(50)},
	}
	criteria := &WeakCriteria{MinStability: fptr(10)}

	res := build(t, []graph.CardRecord{
		{ID: "M", Requires: []string{"P1", "P2"}},
		{ID: "P1"},
		{ID: "P2"},
	}, []string{"M"}, Options{Depth: 2, Criteria: criteria}, stats)

	if !reflect.DeepEqual(res.PrereqQueue, []string{"P1"}) {
		t.Errorf("PrereqQueue = %v, want [P1]", res.PrereqQueue)
	}
	if !reflect.DeepEqual(res.SkippedStrong, []string{"P2"}) {
		t.Errorf("SkippedStrong = %v, want [P2]", res.SkippedStrong)
	}
}

func TestCriteriaRules(t *testing.T) {
	tests := []struct {
		name     string
		criteria *WeakCriteria
		stats    map[string]CardStats
		wantWeak bool
	}{
		{
			name:     "NilCriteriaAlwaysWeak",
			criteria: nil,
			stats:    map[string]CardStats{"c": {Stability: fptr(100)}},
			wantWeak: true,
		},
		{
			name:     "NoStatsDefaultsWeak",
			criteria: &WeakCriteria{MinStability: fptr(10)},
			stats:    nil,
			wantWeak: true,
		},
		{
			name:     "StabilityBelowThreshold",
			criteria: &WeakCriteria{MinStability: fptr(10)},
			stats:    map[string]CardStats{"c": {Stability: fptr(9.5)}},
			wantWeak: true,
		},
		{
			name:     "NilStabilityDoesNotTriggerStabilityRule",
			criteria: &WeakCriteria{MinStability: fptr(10)},
			stats:    map[string]CardStats{"c": {Lapses: 0}},
			wantWeak: false,
		},
		{
			name:     "LapsesAboveThreshold",
			criteria: &WeakCriteria{MaxLapses: iptr(2)},
			stats:    map[string]CardStats{"c": {Lapses: 3}},
			wantWeak: true,
		},
		{
			name:     "ReviewsBelowThreshold",
			criteria: &WeakCriteria{MinReviews: iptr(5)},
			stats:    map[string]CardStats{"c": {Reps: 4}},
			wantWeak: true,
		},
		{
			name:     "IntervalBelowThreshold",
			criteria: &WeakCriteria{MaxInterval: iptr(21)},
			stats:    map[string]CardStats{"c": {Interval: 7}},
			wantWeak: true,
		},
		{
			name:     "AnyRuleSuffices",
			criteria: &WeakCriteria{MinStability: fptr(10), MaxLapses: iptr(10)},
			stats:    map[string]CardStats{"c": {Stability: fptr(5), Lapses: 0}},
			wantWeak: true,
		},
		{
			name:     "AllRulesPassIsStrong",
			criteria: &WeakCriteria{MinStability: fptr(10), MaxLapses: iptr(2), MinReviews: iptr(3), MaxInterval: iptr(7)},
			stats:    map[string]CardStats{"c": {Stability: fptr(50), Lapses: 1, Reps: 20, Interval: 30}},
			wantWeak: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWeak("c", tt.criteria, tt.stats); got != tt.wantWeak {
				t.Errorf("isWeak() = %v, want %v", got, tt.wantWeak)
			}
		})
	}
}

func TestBuildDueCardsNeverInPrereqQueue(t *testing.T) {
	// P1 is both due and a prerequisite of M.
	res := build(t, records(), []string{"M", "P1"}, Options{Depth: 2}, nil)

	for _, id := range res.PrereqQueue {
		if id == "M" || id == "P1" {
			t.Errorf("PrereqQueue = %v, due card %s must not appear", res.PrereqQueue, id)
		}
	}
	queued := map[string]bool{}
	for _, id := range res.MainQueue {
		queued[id] = true
	}
	if !queued["M"] || !queued["P1"] {
		t.Errorf("MainQueue = %v, want both due cards", res.MainQueue)
	}
}

func TestBuildMissingPrereqsReported(t *testing.T) {
	recs := []graph.CardRecord{
		{ID: "M", Requires: []string{"ghost", "P1"}},
		{ID: "N", Requires: []string{"ghost"}},
		{ID: "P1"},
	}
	res := build(t, recs, []string{"M", "N"}, Options{Depth: 2}, nil)

	if !reflect.DeepEqual(res.MissingPrereqs, []string{"ghost"}) {
		t.Errorf("MissingPrereqs = %v, want [ghost] deduplicated", res.MissingPrereqs)
	}
	for _, id := range res.PrereqQueue {
		if id == "ghost" {
			t.Errorf("PrereqQueue = %v, missing card must not be scheduled", res.PrereqQueue)
		}
	}
}

func TestBuildMaxNodesKeepsWeakest(t *testing.T) {
	recs := []graph.CardRecord{
		{ID: "M", Requires: []string{"w1", "w2", "w3"}},
		{ID: "w1"}, {ID: "w2"}, {ID: "w3"},
	}
	stats := map[string]CardStats{
		"w1": {Stability: fptr(30)},
		"w2": {Stability: fptr(1)},
		"w3": {Stability: fptr(10)},
	}
	res := build(t, recs, []string{"M"}, Options{Depth: 1, MaxNodes: 2, Criteria: &WeakCriteria{MinStability: fptr(100)}}, stats)

	queued := map[string]bool{}
	for _, id := range res.PrereqQueue {
		queued[id] = true
	}
	if len(res.PrereqQueue) != 2 || !queued["w2"] || !queued["w3"] {
		t.Errorf("PrereqQueue = %v, want the two lowest-stability cards w2 and w3", res.PrereqQueue)
	}
}

func TestBuildMaxNodesDropsStatlessFirst(t *testing.T) {
	recs := []graph.CardRecord{
		{ID: "M", Requires: []string{"known", "unknown"}},
		{ID: "known"}, {ID: "unknown"},
	}
	stats := map[string]CardStats{"known": {Stability: fptr(3)}}
	res := build(t, recs, []string{"M"}, Options{Depth: 1, MaxNodes: 1, Criteria: &WeakCriteria{MinStability: fptr(100)}}, stats)

	if !reflect.DeepEqual(res.PrereqQueue, []string{"known"}) {
		t.Errorf("PrereqQueue = %v, want statless card dropped first", res.PrereqQueue)
	}
}

func TestBuildCycleDegradesToInputOrder(t *testing.T) {
	recs := []graph.CardRecord{
		{ID: "A", Requires: []string{"B"}},
		{ID: "B", Requires: []string{"A"}},
	}
	res := build(t, recs, []string{"A", "B"}, Options{Depth: 2}, nil)

	if !reflect.DeepEqual(res.MainQueue, []string{"A", "B"}) {
		t.Errorf("MainQueue = %v, want input order fallback", res.MainQueue)
	}
	if len(res.Cycles) != 1 {
		t.Fatalf("Cycles = %v, want the A/B loop reported", res.Cycles)
	}
}

func TestBuildCycleDiagnosticsAreGlobal(t *testing.T) {
	// The cycle is nowhere near the due card, but the diagnostic still
	// carries it.
	recs := []graph.CardRecord{
		{ID: "due"},
		{ID: "x", Requires: []string{"y"}},
		{ID: "y", Requires: []string{"x"}},
	}
	res := build(t, recs, []string{"due"}, Options{}, nil)

	if len(res.Cycles) != 1 {
		t.Errorf("Cycles = %v, want the unrelated x/y loop reported", res.Cycles)
	}
}

func TestBuildGraphReusesScan(t *testing.T) {
	var gb graph.Builder
	g := gb.Build(records())

	var b Builder
	res, err := b.BuildGraph(context.Background(), g, []string{"M"}, Options{Depth: 2}, nil)
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if len(res.PrereqQueue) != 3 {
		t.Errorf("PrereqQueue = %v, want P0 P1 P2 in some valid order", res.PrereqQueue)
	}
}
