// Package graph models prerequisite relationships between flashcards as a
// directed graph and provides the traversals study planning is built on.
//
// # Model
//
// Cards are nodes ([CardNode]); two directed edge kinds connect them:
//
//   - requires: A requires B means reviewing A assumes mastery of B.
//     Ordering and queue construction follow these edges.
//   - related: a discovery hint with no ordering semantics, stored exactly
//     as declared.
//
// Edges may reference ids that never appear as nodes. That is normal in a
// hand-edited vault and is surfaced as diagnostic data via
// [DependencyGraph.UnresolvedRefs], never as an error.
//
// # Building
//
// [Builder] turns extracted [CardRecord] values into a graph. Graphs are
// rebuilt fresh for every operation; nothing is persisted or incrementally
// updated, so a graph is always an exact snapshot of one scan.
//
// # Queries
//
//   - [LocalGraph]: the bounded neighborhood around one card.
//   - [TopoSort]: best-effort learn order over an id subset; degrades to
//     input order on cycles instead of failing.
//   - [DetectCycles]: whole-graph acyclicity check reporting the first
//     cycle found.
//   - [CyclesForCard]: every cycle through one card, without a full scan.
//   - [Health]: aggregate diagnostics (cycles, components, isolated cards,
//     unresolved references).
//
// All entry points exchange plain ids and value copies; callers never hold
// references into graph internals.
//
// # Concurrency
//
// A DependencyGraph is single-threaded by design. Build one per operation
// and discard it; there is no shared state between invocations.
package graph
