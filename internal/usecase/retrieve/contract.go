// Package retrieve implements the leaf retrieval strategies. Each strategy
// turns a query into scored candidates tagged with the strategy that
// produced them; fusion and ranking happen one layer up.
package retrieve

import (
	"context"

	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/domain/recipe"
	"github.com/chefboost/chefboost/internal/domain/search/filter"
	"github.com/chefboost/chefboost/internal/domain/search/result"
	"github.com/chefboost/chefboost/internal/domain/search/strategy"
)

// Retriever executes a single retrieval strategy.
type Retriever interface {
	Name() strategy.Name
	Retrieve(ctx context.Context, q query.Query) ([]result.Result, error)
}

// Store is the document store consumer interface (ISP).
type Store interface {
	SimilaritySearch(ctx context.Context, text string, k int) ([]recipe.Hit, error)
	FilteredSearch(ctx context.Context, text string, k int, f filter.Filter) ([]recipe.Hit, error)
}

// Expander produces alternative phrasings of a query.
type Expander interface {
	Expand(ctx context.Context, q query.Query, count int) []query.Variant
}

// Translator derives a metadata filter from a query.
type Translator interface {
	Translate(ctx context.Context, q query.Query) filter.Filter
}

// toResults maps store hits onto scored candidates tagged with source.
func toResults(hits []recipe.Hit, source strategy.Name) []result.Result {
	if len(hits) == 0 {
		return nil
	}
	out := make([]result.Result, 0, len(hits))
	for i := range hits {
		doc := &hits[i].Document
		out = append(out, result.New(doc.ID(), hits[i].Score, doc.Content(), doc.Metadata(), source))
	}
	return out
}
