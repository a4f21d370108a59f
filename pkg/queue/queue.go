package queue

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cardpath/cardpath/pkg/errors"
	"github.com/cardpath/cardpath/pkg/graph"
	"github.com/cardpath/cardpath/pkg/observability"
)

// Default bounds applied when [Options] leaves them zero.
const (
	DefaultDepth    = 2
	DefaultMaxNodes = 50
)

// Options controls queue construction.
type Options struct {
	// Depth bounds the prerequisite walk from each due card, in hops.
	Depth int

	// MaxNodes caps the number of weak prerequisites scheduled ahead of
	// the main queue. When exceeded, the weakest cards (lowest stability)
	// are kept.
	MaxNodes int

	// IncludeRelated asks for related cards to be mixed into the queue.
	// Not implemented; setting it fails loudly so callers cannot believe
	// the boost silently ran.
	IncludeRelated bool

	// Criteria filters collected prerequisites down to weak ones.
	// Nil means no filtering: every prerequisite is scheduled.
	Criteria *WeakCriteria
}

// Result is a built study plan plus its diagnostics.
type Result struct {
	// PrereqQueue holds weak prerequisites in learn order, to study
	// before the due cards.
	PrereqQueue []string `json:"prereq_queue"`

	// MainQueue holds the due cards themselves in learn order.
	MainQueue []string `json:"main_queue"`

	// SkippedStrong lists prerequisites that were collected but judged
	// already learned.
	SkippedStrong []string `json:"skipped_strong"`

	// MissingPrereqs lists referenced prerequisite ids with no card in
	// the vault, deduplicated in first-seen order.
	MissingPrereqs []string `json:"missing_prereqs"`

	// Cycles carries the whole-graph cycle diagnostic, whether or not a
	// cycle touches this queue.
	Cycles [][]string `json:"cycles"`
}

// Builder builds dependency-aware study queues from a note source and the
// flashcard store's view of what is due. The zero value is usable; Logger
// defaults to [log.Default] when nil.
type Builder struct {
	Logger *log.Logger
}

// Build turns a list of due card ids into a prioritized study plan:
//
//  1. Build a fresh graph from src.
//  2. Collect every prerequisite reachable within opts.Depth hops of a
//     due card; targets missing from the graph are reported, not walked.
//  3. Drop due cards from the candidate pool, classify the rest as weak
//     or strong, cap the weak set at opts.MaxNodes keeping the lowest
//     stability cards.
//  4. Topologically sort the weak set and the due set independently.
//
// Cycles never fail the build; the affected subset falls back to its
// input order and the cycle is reported in the result. The only loud
// failure besides a scan error is opts.IncludeRelated, which is not
// implemented.
func (b *Builder) Build(ctx context.Context, src graph.RecordSource, dueIDs []string, opts Options, stats map[string]CardStats) (*Result, error) {
	g, err := (&graph.Builder{Logger: b.Logger}).BuildFrom(ctx, src)
	if err != nil {
		return nil, err
	}
	return b.BuildGraph(ctx, g, dueIDs, opts, stats)
}

// BuildGraph is Build for callers that already hold a graph, e.g. the
// HTTP API building several queues from one scan.
func (b *Builder) BuildGraph(ctx context.Context, g *graph.DependencyGraph, dueIDs []string, opts Options, stats map[string]CardStats) (result *Result, err error) {
	start := time.Now()
	observability.Queue().OnBuildStart(ctx, len(dueIDs))
	defer func() {
		var prereqs, main int
		if result != nil {
			prereqs, main = len(result.PrereqQueue), len(result.MainQueue)
		}
		observability.Queue().OnBuildComplete(ctx, prereqs, main, time.Since(start), err)
	}()

	opts, err = normalize(opts)
	if err != nil {
		return nil, err
	}
	return b.build(g, dueIDs, opts, stats), nil
}

func normalize(opts Options) (Options, error) {
	if opts.IncludeRelated {
		return opts, errors.New(errors.ErrCodeUnsupported,
			"related card boost is not implemented; build with IncludeRelated=false to use requires-only mode")
	}
	if opts.Depth == 0 {
		opts.Depth = DefaultDepth
	}
	if opts.MaxNodes == 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	return opts, nil
}

func (b *Builder) build(g *graph.DependencyGraph, dueIDs []string, opts Options, stats map[string]CardStats) *Result {
	due := make(map[string]bool, len(dueIDs))
	for _, id := range dueIDs {
		due[id] = true
	}

	// Collect prerequisites per due card. The visited set resets for each
	// due card; overlapping neighborhoods are walked again, but the union
	// of collected ids is identical to a shared-set walk.
	candidates := []string{}
	candidateSeen := make(map[string]bool)
	missing := []string{}
	missingSeen := make(map[string]bool)

	for _, dueID := range dueIDs {
		for _, prereq := range collectPrereqs(g, dueID, opts.Depth, make(map[string]bool)) {
			if !g.HasNode(prereq) {
				if !missingSeen[prereq] {
					missingSeen[prereq] = true
					missing = append(missing, prereq)
				}
				continue
			}
			if due[prereq] || candidateSeen[prereq] {
				continue
			}
			candidateSeen[prereq] = true
			candidates = append(candidates, prereq)
		}
	}

	weak := []string{}
	strong := []string{}
	for _, id := range candidates {
		if isWeak(id, opts.Criteria, stats) {
			weak = append(weak, id)
		} else {
			strong = append(strong, id)
		}
	}

	if len(weak) > opts.MaxNodes {
		// Keep the weakest cards. Cards without a stability value sort
		// last and are dropped first.
		sort.SliceStable(weak, func(i, j int) bool {
			return stability(weak[i], stats) < stability(weak[j], stats)
		})
		weak = weak[:opts.MaxNodes]
	}

	prereqRes := graph.TopoSort(g, weak)
	mainRes := graph.TopoSort(g, dueIDs)
	if prereqRes.Cyclic || mainRes.Cyclic {
		b.logger().Warn("cycle detected in card dependencies, queue uses original order")
	}

	return &Result{
		PrereqQueue:    prereqRes.Order,
		MainQueue:      mainRes.Order,
		SkippedStrong:  strong,
		MissingPrereqs: missing,
		Cycles:         graph.DetectCycles(g),
	}
}

// collectPrereqs gathers every prerequisite id reachable from cardID
// within depth hops, known or not. The visited set guards the walk
// against cycles; collection order is deterministic (edge order, depth
// first).
func collectPrereqs(g *graph.DependencyGraph, cardID string, depth int, visited map[string]bool) []string {
	if depth <= 0 || visited[cardID] {
		return nil
	}
	visited[cardID] = true

	collected := []string{}
	seen := make(map[string]bool)
	for _, prereq := range g.Prerequisites(cardID) {
		if !seen[prereq] {
			seen[prereq] = true
			collected = append(collected, prereq)
		}
		for _, deeper := range collectPrereqs(g, prereq, depth-1, visited) {
			if !seen[deeper] {
				seen[deeper] = true
				collected = append(collected, deeper)
			}
		}
	}
	return collected
}

func stability(id string, stats map[string]CardStats) float64 {
	if st, ok := stats[id]; ok && st.Stability != nil {
		return *st.Stability
	}
	return math.Inf(1)
}

func (b *Builder) logger() *log.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return log.Default()
}
