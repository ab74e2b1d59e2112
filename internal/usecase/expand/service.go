// Package expand generates alternative phrasings of a recipe query so the
// multi-query strategy can cast a wider net over the corpus.
package expand

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/lineparse"
	"github.com/chefboost/chefboost/internal/logger"
)

const promptTemplate = `You are a search assistant for a recipe database.
Given a user's recipe query, generate %d alternative phrasings that could surface additional relevant recipes.
Vary ingredient names, dish names, and cooking terminology.
Output ONLY the alternative queries, one per line, without numbering or explanations.

Original query: %s`

// Service expands a query into alternative phrasings.
type Service struct {
	gen       Generator
	maxTokens int
	timeout   time.Duration
}

// New creates a query expansion service. timeout bounds each generation call.
func New(gen Generator, maxTokens int, timeout time.Duration) *Service {
	return &Service{gen: gen, maxTokens: maxTokens, timeout: timeout}
}

// Expand returns up to count variants of the query, each non-empty and
// deduplicated case-insensitively against the original text and each other.
// A failed generation call or unusable output yields an empty slice, not an
// error: the original query is still searchable without expansion.
func (s *Service) Expand(ctx context.Context, q query.Query, count int) []query.Variant {
	if count <= 0 {
		return nil
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(promptTemplate, count, q.Text())

	raw, err := s.gen.Generate(callCtx, prompt, s.maxTokens)
	if err != nil {
		logger.FromContext(ctx).Warn("Query expansion failed, proceeding without variants",
			zap.String("query", q.Text()), zap.Error(err))
		return nil
	}

	seen := map[string]struct{}{
		strings.ToLower(q.Text()): {},
	}

	var variants []query.Variant
	for _, line := range lineparse.Lines(raw) {
		key := strings.ToLower(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		variants = append(variants, query.NewVariant(line, q.Text()))
		if len(variants) == count {
			break
		}
	}

	return variants
}
