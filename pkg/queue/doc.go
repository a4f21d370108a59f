// Package queue builds prioritized study queues that respect prerequisite
// ordering: weak prerequisites first, then the cards that are actually
// due, each set in best-effort topological order.
//
// The builder is pure orchestration over [pkg/graph]: it owns no I/O, no
// persistence and no scheduling state. Callers supply a record source (the
// vault scanner), the store's due-card ids and optionally per-card stats;
// they receive a [Result] of plain id slices plus diagnostics (strong
// prerequisites that were skipped, dangling references, cycles).
//
// Degradation rules: cycles fall back to input order with a warning,
// missing cards become diagnostic data, and absent stats classify a card
// as weak rather than dropping it. The single loud failure is
// [Options.IncludeRelated], which is not implemented.
package queue
