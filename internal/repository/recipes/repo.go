// Package recipes implements the document store client over the FT index:
// it vectorizes query text and runs (optionally metadata-filtered) KNN search.
package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chefboost/chefboost/internal/db"
	"github.com/chefboost/chefboost/internal/domain"
	"github.com/chefboost/chefboost/internal/domain/recipe"
	"github.com/chefboost/chefboost/internal/domain/search/filter"
)

// Hash field names of a stored recipe chunk. The vector and content fields
// are internal; everything else is caller-visible metadata.
const (
	fieldContent = "__content"
	fieldVector  = "__vector"
	fieldScore   = "__vector_score"
)

// defaultVectorDim matches text-embedding-3-small's native width.
const defaultVectorDim = 1536

// store is the consumer interface for recipe search (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo executes similarity and metadata-filtered search against the recipe
// vector index.
type Repo struct {
	store     store
	embed     domain.Embedder
	indexName string
	keyPrefix string
	timeout   time.Duration
}

// New creates a recipe store repository for the named index.
func New(s store, embed domain.Embedder, indexName string) *Repo {
	return &Repo{
		store:     s,
		embed:     embed,
		indexName: fmt.Sprintf("%s%s:idx", domain.KeyPrefix, indexName),
		keyPrefix: fmt.Sprintf("%s%s:", domain.KeyPrefix, indexName),
	}
}

// WithTimeout bounds each store call. Zero means the caller's context rules.
func (r *Repo) WithTimeout(d time.Duration) *Repo {
	r.timeout = d
	return r
}

// IndexDefinition returns the FT index definition the repository reads. The
// ingestion pipeline owns the data; the service only ensures the index
// exists so searches do not fail on a fresh store.
func IndexDefinition(indexName string, dim, hnswM, hnswEFConstruct int) (*db.IndexDefinition, error) {
	if dim <= 0 {
		dim = defaultVectorDim
	}
	return db.NewIndex(fmt.Sprintf("%s%s:idx", domain.KeyPrefix, indexName)).
		Prefix(fmt.Sprintf("%s%s:", domain.KeyPrefix, indexName)).
		Text(fieldContent).
		Tag(filter.AttrRecipeType).
		Tag(filter.AttrCuisine).
		Tag(filter.AttrSpecialConsiderations).
		VectorHNSW(fieldVector, dim, db.DistanceCosine, hnswM, hnswEFConstruct).
		Build()
}

// SimilaritySearch returns the top-k recipe chunks nearest to the query text.
func (r *Repo) SimilaritySearch(ctx context.Context, text string, k int) ([]recipe.Hit, error) {
	return r.search(ctx, text, k, filter.Empty())
}

// FilteredSearch runs a similarity search additionally constrained by the
// metadata filter's attribute equality predicates.
func (r *Repo) FilteredSearch(ctx context.Context, text string, k int, f filter.Filter) ([]recipe.Hit, error) {
	return r.search(ctx, text, k, f)
}

func (r *Repo) search(ctx context.Context, text string, k int, f filter.Filter) ([]recipe.Hit, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	embResult, err := r.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	q := &db.KNNQuery{
		IndexName: r.indexName,
		Filters:   f,
		Vector:    embResult.Embedding,
		K:         k,
		ReturnFields: []string{
			fieldContent, fieldScore,
			filter.AttrRecipeType, filter.AttrCuisine, filter.AttrSpecialConsiderations,
			"title", "source",
		},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, classifyStoreErr(err)
	}

	return r.toHits(sr), nil
}

func (r *Repo) toHits(sr *db.SearchResult) []recipe.Hit {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	hits := make([]recipe.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, r.keyPrefix)

		content := entry.Fields[fieldContent]
		metadata := make(map[string]string, len(entry.Fields))
		for name, value := range entry.Fields {
			if name == fieldContent || name == fieldVector {
				continue
			}
			metadata[name] = value
		}

		hits = append(hits, recipe.Hit{
			Document: recipe.NewDocument(id, content, metadata),
			Score:    entry.Score,
		})
	}
	return hits
}

// classifyStoreErr maps driver failures onto the store error taxonomy.
func classifyStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrStoreTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
