package result

// Set is the final candidate list returned to the caller: ordered by
// descending relevance, deduplicated by document identifier, capped.
type Set struct {
	entries []Result
}

// NewSet builds a candidate set from an already ranked, deduplicated slice,
// truncating it to limit. A limit of zero or less means "no cap".
func NewSet(entries []Result, limit int) Set {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return Set{entries: entries}
}

// EmptySet returns a candidate set with no entries. "No results" is a valid
// outcome, distinct from a strategy execution failure.
func EmptySet() Set {
	return Set{}
}

// Entries returns the ranked candidates.
func (s Set) Entries() []Result { return s.entries }

// Len returns the number of candidates.
func (s Set) Len() int { return len(s.entries) }

// IsEmpty reports whether the set has no candidates.
func (s Set) IsEmpty() bool { return len(s.entries) == 0 }
