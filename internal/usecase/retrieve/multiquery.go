package retrieve

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/domain/recipe"
	"github.com/chefboost/chefboost/internal/domain/search/result"
	"github.com/chefboost/chefboost/internal/domain/search/strategy"
	"github.com/chefboost/chefboost/internal/logger"
)

// MultiQuery widens recall by searching the original query text alongside
// generated rephrasings and concatenating everything it finds. Duplicates
// across sub-searches are left in place; fusion collapses them.
type MultiQuery struct {
	store        Store
	expander     Expander
	variantCount int
}

// NewMultiQuery creates the multi-query strategy with up to variantCount
// generated rephrasings per call.
func NewMultiQuery(store Store, expander Expander, variantCount int) *MultiQuery {
	return &MultiQuery{store: store, expander: expander, variantCount: variantCount}
}

// Name returns the strategy tag.
func (m *MultiQuery) Name() strategy.Name { return strategy.MultiQuery }

// Retrieve fans out one similarity search per phrasing and concatenates the
// hits in phrasing order. A failed sub-search is skipped; the strategy fails
// only when every sub-search fails.
func (m *MultiQuery) Retrieve(ctx context.Context, q query.Query) ([]result.Result, error) {
	texts := []string{q.Text()}
	for _, v := range m.expander.Expand(ctx, q, m.variantCount) {
		texts = append(texts, v.Text())
	}

	// Join barrier only: a failed sibling must not cancel the others, so
	// errors land in per-slot capture instead of the group.
	hits := make([][]recipe.Hit, len(texts))
	errs := make([]error, len(texts))

	g, groupCtx := errgroup.WithContext(ctx)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			hits[i], errs[i] = m.store.SimilaritySearch(groupCtx, text, q.K())
			return nil
		})
	}
	_ = g.Wait()

	var (
		combined []result.Result
		failures []error
	)
	for i := range texts {
		if errs[i] != nil {
			logger.FromContext(ctx).Warn("Multi-query sub-search failed",
				zap.String("text", texts[i]), zap.Error(errs[i]))
			failures = append(failures, errs[i])
			continue
		}
		combined = append(combined, toResults(hits[i], strategy.MultiQuery)...)
	}

	if len(failures) == len(texts) {
		return nil, fmt.Errorf("multi query: all %d sub-searches failed: %w",
			len(texts), errors.Join(failures...))
	}
	return combined, nil
}
