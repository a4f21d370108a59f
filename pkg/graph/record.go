package graph

import "context"

// CardRecord is one card entry as extracted from a note file, before any
// graph semantics are applied. Records with an empty ID are dropped by the
// builder; Requires and Related carry whatever the note declared, already
// normalized to id lists by the record source.
type CardRecord struct {
	ID       string
	Title    string
	Requires []string
	Related  []string
	FilePath string
	Line     int
}

// RecordSource produces the card records a graph is built from, typically
// by scanning a vault of markdown notes. Implementations own all I/O and
// per-file error isolation: a file that fails to parse is logged and
// skipped inside the source, and only the records that survived are
// returned. The returned error is reserved for failures that invalidate
// the whole scan (e.g. the vault root does not exist).
type RecordSource interface {
	Records(ctx context.Context) ([]CardRecord, error)
}

// RecordSourceFunc adapts a function to the RecordSource interface.
type RecordSourceFunc func(ctx context.Context) ([]CardRecord, error)

// Records calls f.
func (f RecordSourceFunc) Records(ctx context.Context) ([]CardRecord, error) {
	return f(ctx)
}

// StaticSource returns a RecordSource that yields the given records as-is.
// Useful for tests and for callers that already hold extracted records.
func StaticSource(records []CardRecord) RecordSource {
	return RecordSourceFunc(func(context.Context) ([]CardRecord, error) {
		return records, nil
	})
}
