package chefboost

import (
	"context"
	"errors"
	"testing"

	"github.com/chefboost/chefboost/internal/domain"
	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/domain/search/result"
	"github.com/chefboost/chefboost/internal/domain/search/strategy"
	toolsuc "github.com/chefboost/chefboost/internal/usecase/tools"
)

type mockDispatcher struct {
	set      result.Set
	err      error
	lastTool string
	lastQ    query.Query
}

func (m *mockDispatcher) List() []toolsuc.Tool {
	return []toolsuc.Tool{{Name: "similarity", Description: "nearest neighbors"}}
}

func (m *mockDispatcher) Dispatch(_ context.Context, toolName string, q query.Query) (result.Set, error) {
	m.lastTool = toolName
	m.lastQ = q
	return m.set, m.err
}

func TestEngine_Tools(t *testing.T) {
	e := &Engine{dispatcher: &mockDispatcher{}}

	listed := e.Tools()
	if len(listed) != 1 || listed[0].Name != "similarity" {
		t.Fatalf("tools = %v", listed)
	}
}

func TestEngine_DispatchConvertsCandidates(t *testing.T) {
	d := &mockDispatcher{set: result.NewSet([]result.Result{
		result.New("doc-1", 0.9, "Minestrone", map[string]string{"cuisine": "italian"}, strategy.Similarity),
	}, 0)}
	e := &Engine{dispatcher: d}

	got, err := e.Dispatch(context.Background(), "similarity", "hearty soup", 5)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if d.lastTool != "similarity" || d.lastQ.K() != 5 {
		t.Errorf("dispatched tool=%q k=%d", d.lastTool, d.lastQ.K())
	}
	if len(got) != 1 || got[0].ID != "doc-1" || got[0].Strategy != "similarity" {
		t.Errorf("candidates = %+v", got)
	}
	if got[0].Metadata["cuisine"] != "italian" {
		t.Errorf("metadata = %v", got[0].Metadata)
	}
}

func TestEngine_SearchUsesHybrid(t *testing.T) {
	d := &mockDispatcher{set: result.EmptySet()}
	e := &Engine{dispatcher: d}

	if _, err := e.Search(context.Background(), "vegan dessert", 4); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if d.lastTool != "hybrid" {
		t.Errorf("tool = %q, want hybrid", d.lastTool)
	}
}

func TestEngine_DispatchRejectsEmptyQuery(t *testing.T) {
	e := &Engine{dispatcher: &mockDispatcher{}}

	if _, err := e.Dispatch(context.Background(), "similarity", "   ", 4); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestEngine_DispatchPropagatesUnknownTool(t *testing.T) {
	d := &mockDispatcher{err: domain.ErrUnknownTool}
	e := &Engine{dispatcher: d}

	if _, err := e.Dispatch(context.Background(), "telepathy", "soup", 4); !errors.Is(err, domain.ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}
