package queue

// CardStats is the scheduling state of one card as reported by the
// flashcard store. Stability is a pointer because stores without FSRS
// enabled report no stability at all, which is different from zero.
type CardStats struct {
	Stability *float64 `json:"stability,omitempty"`
	Lapses    int      `json:"lapses"`
	Reps      int      `json:"reps"`
	Interval  int      `json:"interval"`
}

// WeakCriteria decides whether a prerequisite still counts as weak, i.e.
// not yet solidly learned and worth scheduling before its dependents.
// Every threshold is independently optional; a nil field disables that
// rule. A card is weak as soon as any configured rule triggers.
type WeakCriteria struct {
	MinStability *float64 `json:"min_stability,omitempty"` // weak if stability < MinStability
	MaxLapses    *int     `json:"max_lapses,omitempty"`    // weak if lapses > MaxLapses
	MinReviews   *int     `json:"min_reviews,omitempty"`   // weak if reps < MinReviews
	MaxInterval  *int     `json:"max_interval,omitempty"`  // weak if interval < MaxInterval
}

// isWeak classifies one prerequisite against the criteria.
//
// Missing information is conservative: with no criteria at all every card
// is weak (no filtering requested), and with criteria but no stats for
// this card it is assumed weak rather than silently skipped.
func isWeak(id string, criteria *WeakCriteria, stats map[string]CardStats) bool {
	if criteria == nil {
		return true
	}
	st, ok := stats[id]
	if !ok {
		return true
	}

	if criteria.MinStability != nil && st.Stability != nil && *st.Stability < *criteria.MinStability {
		return true
	}
	if criteria.MaxLapses != nil && st.Lapses > *criteria.MaxLapses {
		return true
	}
	if criteria.MinReviews != nil && st.Reps < *criteria.MinReviews {
		return true
	}
	if criteria.MaxInterval != nil && st.Interval < *criteria.MaxInterval {
		return true
	}
	return false
}
