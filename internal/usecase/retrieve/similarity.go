package retrieve

import (
	"context"
	"fmt"

	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/domain/search/result"
	"github.com/chefboost/chefboost/internal/domain/search/strategy"
)

// Similarity is the plain vector nearest-neighbor strategy.
type Similarity struct {
	store Store
}

// NewSimilarity creates the similarity strategy.
func NewSimilarity(store Store) *Similarity {
	return &Similarity{store: store}
}

// Name returns the strategy tag.
func (s *Similarity) Name() strategy.Name { return strategy.Similarity }

// Retrieve returns the top-k nearest recipe chunks for the query text.
func (s *Similarity) Retrieve(ctx context.Context, q query.Query) ([]result.Result, error) {
	hits, err := s.store.SimilaritySearch(ctx, q.Text(), q.K())
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	return toResults(hits, strategy.Similarity), nil
}
