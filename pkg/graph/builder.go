package graph

import (
	"context"

	"github.com/charmbracelet/log"
)

// Builder converts card records into a dependency graph.
// The zero value is usable; Logger defaults to [log.Default] when nil.
type Builder struct {
	Logger *log.Logger
}

// Build constructs a fresh graph from the given records.
//
// Records with an empty id are dropped. Titles fall back to the card id
// when empty and are truncated to [MaxTitleLen] characters. A malformed
// record never affects its neighbors: every record is processed
// independently.
func (b *Builder) Build(records []CardRecord) *DependencyGraph {
	g := New()
	dropped := 0

	for _, rec := range records {
		if rec.ID == "" {
			dropped++
			continue
		}

		title := rec.Title
		if title == "" {
			title = rec.ID
		}
		g.AddNode(CardNode{
			ID:       rec.ID,
			Title:    truncate(title, MaxTitleLen),
			FilePath: rec.FilePath,
			Line:     rec.Line,
		})

		for _, prereq := range rec.Requires {
			if prereq != "" {
				g.AddRequires(rec.ID, prereq)
			}
		}
		for _, rel := range rec.Related {
			if rel != "" {
				g.AddRelated(rec.ID, rel)
			}
		}
	}

	if dropped > 0 {
		b.logger().Debugf("dropped %d card records without an id", dropped)
	}
	return g
}

// BuildFrom reads all records from src and builds a graph from them.
// Scan-level failures (the source could not produce records at all) are
// returned; per-file failures are the source's responsibility and never
// reach the builder.
func (b *Builder) BuildFrom(ctx context.Context, src RecordSource) (*DependencyGraph, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return nil, err
	}
	return b.Build(records), nil
}

func (b *Builder) logger() *log.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return log.Default()
}

// truncate cuts s to at most n characters without splitting the count
// across bytes vs runes inconsistently; titles are display strings, so
// rune boundaries are what matter.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
