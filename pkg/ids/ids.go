// Package ids mints and validates the stable card identifiers that link
// vault frontmatter, Anki note tags and the dependency graph.
//
// Identifiers look like "card_9f86d081a3": the fixed "card_" prefix
// followed by a short random hex suffix. Hand-written mnemonic ids such
// as "card_monoid" are equally valid; minting exists so that `cardpath
// ids assign` can fill in the blanks without inventing names.
package ids

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cardpath/cardpath/pkg/graph"
)

// Prefix starts every card id. It doubles as the Anki note tag prefix.
const Prefix = "card_"

// suffixLen is the number of hex characters in a minted id.
const suffixLen = 10

// New mints a fresh card id from random UUID bytes.
func New() string {
	u := uuid.New()
	return Prefix + hex.EncodeToString(u[:])[:suffixLen]
}

// Valid reports whether id is a well-formed card id: the prefix
// followed by at least one character from [a-z0-9_-]. Uppercase is
// rejected because Anki lowercases tags, which would silently break the
// note-to-card mapping.
func Valid(id string) bool {
	suffix, ok := strings.CutPrefix(id, Prefix)
	if !ok || suffix == "" {
		return false
	}
	for _, r := range suffix {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// Audit summarizes id problems across a set of card records.
type Audit struct {
	// Missing lists records with an empty id, as file:line strings.
	Missing []string `json:"missing"`

	// Invalid maps malformed ids to their file:line locations.
	Invalid map[string][]string `json:"invalid"`

	// Duplicates maps ids declared more than once to every location
	// that declares them.
	Duplicates map[string][]string `json:"duplicates"`
}

// Clean reports whether the audit found no problems.
func (a Audit) Clean() bool {
	return len(a.Missing) == 0 && len(a.Invalid) == 0 && len(a.Duplicates) == 0
}

// Check audits records for missing, malformed and duplicate ids.
func Check(records []graph.CardRecord) Audit {
	audit := Audit{
		Invalid:    map[string][]string{},
		Duplicates: map[string][]string{},
	}
	locations := map[string][]string{}

	for _, rec := range records {
		loc := location(rec)
		if rec.ID == "" {
			audit.Missing = append(audit.Missing, loc)
			continue
		}
		if !Valid(rec.ID) {
			audit.Invalid[rec.ID] = append(audit.Invalid[rec.ID], loc)
		}
		locations[rec.ID] = append(locations[rec.ID], loc)
	}

	for id, locs := range locations {
		if len(locs) > 1 {
			audit.Duplicates[id] = locs
		}
	}
	return audit
}

func location(rec graph.CardRecord) string {
	if rec.FilePath == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", rec.FilePath, rec.Line)
}
