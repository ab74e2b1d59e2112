package recipes

import (
	"context"
	"errors"
	"testing"

	"github.com/chefboost/chefboost/internal/db"
	"github.com/chefboost/chefboost/internal/domain"
	"github.com/chefboost/chefboost/internal/domain/search/filter"
)

type mockStore struct {
	result    *db.SearchResult
	err       error
	lastQuery *db.KNNQuery
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastQuery = q
	return m.result, m.err
}

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func TestSimilaritySearch_MapsEntries(t *testing.T) {
	ms := &mockStore{result: &db.SearchResult{
		Total: 1,
		Entries: []db.SearchEntry{{
			Key:   "chefboost:recipes:doc-1",
			Score: 0.9,
			Fields: map[string]string{
				fieldContent: "Beat egg yolks and sugar.",
				"cuisine":    "italian",
				"title":      "Tiramisu",
			},
		}},
	}}
	repo := New(ms, &mockEmbedder{vec: []float32{0.1}}, "recipes")

	hits, err := repo.SimilaritySearch(context.Background(), "tiramisu", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}

	doc := hits[0].Document
	if doc.ID() != "doc-1" {
		t.Errorf("id = %q, want doc-1", doc.ID())
	}
	if doc.Content() != "Beat egg yolks and sugar." {
		t.Errorf("unexpected content: %q", doc.Content())
	}
	if doc.Metadata()["cuisine"] != "italian" || doc.Metadata()["title"] != "Tiramisu" {
		t.Errorf("unexpected metadata: %v", doc.Metadata())
	}
	if _, ok := doc.Metadata()[fieldContent]; ok {
		t.Error("content must not leak into metadata")
	}
	if hits[0].Score != 0.9 {
		t.Errorf("score = %f, want 0.9", hits[0].Score)
	}
}

func TestFilteredSearch_PassesFilter(t *testing.T) {
	ms := &mockStore{result: &db.SearchResult{}}
	repo := New(ms, &mockEmbedder{vec: []float32{0.1}}, "recipes")

	f := filter.FromPairs(map[string]string{"cuisine": "thai"})
	if _, err := repo.FilteredSearch(context.Background(), "soup", 4, f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ms.lastQuery == nil || ms.lastQuery.Filters.IsEmpty() {
		t.Fatal("expected filter to reach the store query")
	}
	if ms.lastQuery.K != 4 {
		t.Errorf("k = %d, want 4", ms.lastQuery.K)
	}
}

func TestSearch_StoreErrorClassified(t *testing.T) {
	ms := &mockStore{err: errors.New("connection refused")}
	repo := New(ms, &mockEmbedder{vec: []float32{0.1}}, "recipes")

	_, err := repo.SimilaritySearch(context.Background(), "soup", 4)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSearch_TimeoutClassified(t *testing.T) {
	ms := &mockStore{err: context.DeadlineExceeded}
	repo := New(ms, &mockEmbedder{vec: []float32{0.1}}, "recipes")

	_, err := repo.SimilaritySearch(context.Background(), "soup", 4)
	if !errors.Is(err, domain.ErrStoreTimeout) {
		t.Fatalf("expected ErrStoreTimeout, got %v", err)
	}
}

func TestSearch_EmbedErrorPropagates(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, &mockEmbedder{err: domain.ErrGeneration}, "recipes")

	_, err := repo.SimilaritySearch(context.Background(), "soup", 4)
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected generation error, got %v", err)
	}
	if ms.lastQuery != nil {
		t.Error("store must not be queried when embedding fails")
	}
}
