// Package selfquery derives a structured metadata filter from free-form query
// text, constrained to the declared recipe attribute schema.
package selfquery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chefboost/chefboost/internal/domain"
	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/domain/search/filter"
	"github.com/chefboost/chefboost/internal/lineparse"
	"github.com/chefboost/chefboost/internal/logger"
)

const promptTemplate = `Extract search filters from a recipe query.
Allowed attributes and their values:
%s
Output one "attribute: value" pair per line, using only the allowed attributes.
Use a comma-separated list when several values apply to one attribute.
If the query implies no filter at all, output the single word NONE.

Query: %s`

// Service translates query text into a metadata filter.
type Service struct {
	gen       Generator
	maxTokens int
	timeout   time.Duration
}

// New creates a self-query translation service. timeout bounds each
// generation call.
func New(gen Generator, maxTokens int, timeout time.Duration) *Service {
	return &Service{gen: gen, maxTokens: maxTokens, timeout: timeout}
}

// Translate derives a metadata filter from the query. Unrecognized
// attributes are dropped rather than rejected: a hallucinated filter term
// must never exclude correct matches. Generation or parse failure yields an
// empty filter so the caller degrades to an unfiltered search.
func (s *Service) Translate(ctx context.Context, q query.Query) filter.Filter {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(promptTemplate, schemaDescription(), q.Text())

	raw, err := s.gen.Generate(callCtx, prompt, s.maxTokens)
	if err != nil {
		logger.FromContext(ctx).Warn("Filter extraction failed, searching unfiltered",
			zap.String("query", q.Text()), zap.Error(err))
		return filter.Empty()
	}

	f, err := parseFilter(raw)
	if err != nil {
		logger.FromContext(ctx).Warn("Filter extraction unparsable, searching unfiltered",
			zap.String("query", q.Text()), zap.Error(err))
	}
	return f
}

// parseFilter reads "attribute: value" lines into a whitelisted filter.
// Anything that does not match the shape is skipped, not fatal; the returned
// error distinguishes garbage output from an intentional empty filter.
func parseFilter(raw string) (filter.Filter, error) {
	pairs := make(map[string]string)
	sawNone := false
	for _, line := range lineparse.Lines(raw) {
		if strings.EqualFold(line, "none") {
			sawNone = true
			continue
		}
		attr, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		attr = strings.TrimSpace(attr)
		value = strings.TrimSpace(value)
		if attr == "" || value == "" {
			continue
		}
		if prev, ok := pairs[attr]; ok {
			pairs[attr] = prev + "," + value
		} else {
			pairs[attr] = value
		}
	}
	if len(pairs) == 0 && !sawNone && strings.TrimSpace(raw) != "" {
		return filter.Empty(), fmt.Errorf("%w: no attribute lines found", domain.ErrParse)
	}
	return filter.FromPairs(pairs), nil
}

// schemaDescription renders the recognized attributes for the prompt.
func schemaDescription() string {
	var b strings.Builder
	for _, attr := range filter.Attributes() {
		fmt.Fprintf(&b, "- %s: %s\n", attr, strings.Join(filter.KnownValues(attr), ", "))
	}
	return b.String()
}
