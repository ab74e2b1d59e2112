// Package query holds the immutable query value objects that flow through
// the retrieval engine.
package query

import (
	"fmt"
	"strings"

	"github.com/chefboost/chefboost/internal/domain"
	"github.com/chefboost/chefboost/internal/domain/search/strategy"
)

// Query parameter limits.
const (
	// MaxTextLength is the maximum allowed query text length.
	MaxTextLength = 2048
	// DefaultK is the number of candidates requested when the caller does not say.
	DefaultK = 4
	// MaxK caps the candidate count a single request may ask for.
	MaxK = 50
)

// Query is a validated retrieval query.
type Query struct {
	text     string
	k        int
	strategy strategy.Name
}

// New validates and normalizes query parameters.
// Defaults: k=4. An empty strategy selector means "caller decides per call".
func New(text string, k int, s strategy.Name) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Query{}, fmt.Errorf("%w: text is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: text too long (max %d chars)", domain.ErrInvalidQuery, MaxTextLength)
	}
	if s != "" && !s.IsValid() {
		return Query{}, fmt.Errorf("%w: unknown strategy %q", domain.ErrInvalidQuery, s)
	}
	if k <= 0 {
		k = DefaultK
	}
	if k > MaxK {
		k = MaxK
	}
	return Query{text: text, k: k, strategy: s}, nil
}

// MustNew creates a query or panics. Intended for tests and fixed prompts.
func MustNew(text string, k int, s strategy.Name) Query {
	q, err := New(text, k, s)
	if err != nil {
		panic(err)
	}
	return q
}

// Text returns the raw query text.
func (q Query) Text() string { return q.text }

// K returns the requested candidate count.
func (q Query) K() int { return q.k }

// Strategy returns the optional strategy selector.
func (q Query) Strategy() strategy.Name { return q.strategy }

// WithText derives a query with different text but the same parameters.
func (q Query) WithText(text string) Query {
	return Query{text: text, k: q.k, strategy: q.strategy}
}

// Variant is an alternative phrasing produced by query expansion. It carries
// the originating query text for tracing; it does not own the original.
type Variant struct {
	text   string
	origin string
}

// NewVariant creates a query variant.
func NewVariant(text, origin string) Variant {
	return Variant{text: text, origin: origin}
}

// Text returns the variant phrasing.
func (v Variant) Text() string { return v.text }

// Origin returns the text of the query this variant was derived from.
func (v Variant) Origin() string { return v.origin }
