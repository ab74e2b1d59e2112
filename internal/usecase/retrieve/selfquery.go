package retrieve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/domain/search/result"
	"github.com/chefboost/chefboost/internal/domain/search/strategy"
	"github.com/chefboost/chefboost/internal/logger"
)

// SelfQuery translates the query into a metadata filter before searching, so
// "vegan italian desserts" constrains the index on the structured attributes
// instead of hoping the embedding captures them.
type SelfQuery struct {
	store      Store
	translator Translator
}

// NewSelfQuery creates the self-query strategy.
func NewSelfQuery(store Store, translator Translator) *SelfQuery {
	return &SelfQuery{store: store, translator: translator}
}

// Name returns the strategy tag.
func (s *SelfQuery) Name() strategy.Name { return strategy.SelfQuery }

// Retrieve runs a metadata-filtered similarity search. When translation
// yields no filter the strategy degrades to an unfiltered search; the
// results still carry the self_query tag.
func (s *SelfQuery) Retrieve(ctx context.Context, q query.Query) ([]result.Result, error) {
	f := s.translator.Translate(ctx, q)

	if f.IsEmpty() {
		logger.FromContext(ctx).Debug("No filter extracted, falling back to unfiltered search",
			zap.String("query", q.Text()))
		hits, err := s.store.SimilaritySearch(ctx, q.Text(), q.K())
		if err != nil {
			return nil, fmt.Errorf("self query fallback search: %w", err)
		}
		return toResults(hits, strategy.SelfQuery), nil
	}

	hits, err := s.store.FilteredSearch(ctx, q.Text(), q.K(), f)
	if err != nil {
		return nil, fmt.Errorf("self query search (%s): %w", f, err)
	}
	return toResults(hits, strategy.SelfQuery), nil
}
