// Package strategy defines the retrieval strategy names and their
// precision-priority ordering used for fusion tie-breaking.
package strategy

// Name identifies a retrieval strategy or the fused hybrid mode.
type Name string

// Registered strategy names.
const (
	// Similarity is plain embedding-similarity search.
	Similarity Name = "similarity"
	// SelfQuery derives a metadata filter from the query before searching.
	SelfQuery Name = "self_query"
	// MultiQuery fans out over generated query variants.
	MultiQuery Name = "multi_query"
	// Hybrid runs several strategies and fuses their results.
	Hybrid Name = "hybrid"
)

// IsValid checks if the name is one of the supported values.
func (n Name) IsValid() bool {
	return n == Similarity || n == SelfQuery || n == MultiQuery || n == Hybrid
}

// Priority returns the precision rank used to break score ties during fusion.
// Higher wins: self_query > similarity > multi_query.
func (n Name) Priority() int {
	switch n {
	case SelfQuery:
		return 3
	case Similarity:
		return 2
	case MultiQuery:
		return 1
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (n Name) String() string { return string(n) }
