// Package fusion runs several retrieval strategies in parallel and merges
// their candidates into one ranked, deduplicated set.
package fusion

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chefboost/chefboost/internal/domain"
	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/domain/search/result"
	"github.com/chefboost/chefboost/internal/logger"
	"github.com/chefboost/chefboost/internal/metrics"
	"github.com/chefboost/chefboost/internal/usecase/retrieve"
)

// Service fuses the output of multiple retrieval strategies.
type Service struct{}

// New creates a fusion service.
func New() *Service {
	return &Service{}
}

// Search fans the query out to every strategy, waits for all of them and
// fuses what came back: dedup by document ID keeping the best score, rank
// by score, truncate to the query's limit. A strategy failure only drops
// that strategy's contribution; the call fails when all of them failed.
func (s *Service) Search(ctx context.Context, q query.Query, strategies []retrieve.Retriever) (result.Set, error) {
	if len(strategies) == 0 {
		return result.EmptySet(), domain.ErrNoStrategies
	}

	lists := make([][]result.Result, len(strategies))
	errs := make([]error, len(strategies))

	// Join barrier: sibling failures are collected per-slot, never returned
	// through the group, so one broken strategy cannot cancel the rest.
	g, groupCtx := errgroup.WithContext(ctx)
	for i, r := range strategies {
		i, r := i, r
		g.Go(func() error {
			lists[i], errs[i] = instrumented(groupCtx, r, q)
			return nil
		})
	}
	_ = g.Wait()

	failures := make(map[string]error)
	for i, r := range strategies {
		if errs[i] != nil {
			logger.FromContext(ctx).Warn("Strategy failed, excluding from fusion",
				zap.String("strategy", r.Name().String()), zap.Error(errs[i]))
			failures[r.Name().String()] = errs[i]
		}
	}
	if len(failures) == len(strategies) {
		return result.EmptySet(), domain.NewStrategyFailure(failures)
	}

	return fuse(lists, q.K()), nil
}

// instrumented runs one strategy and records its metrics.
func instrumented(ctx context.Context, r retrieve.Retriever, q query.Query) ([]result.Result, error) {
	name := r.Name().String()

	start := time.Now()
	results, err := r.Retrieve(ctx, q)
	metrics.StrategyDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.StrategyRequestsTotal.WithLabelValues(name, "error").Inc()
		return nil, err
	}
	metrics.StrategyRequestsTotal.WithLabelValues(name, "success").Inc()
	metrics.StrategyCandidatesTotal.WithLabelValues(name).Add(float64(len(results)))
	return results, nil
}
