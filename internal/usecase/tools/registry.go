// Package tools exposes the retrieval strategies as a named tool registry
// so an agent loop can pick one by name and dispatch a query to it.
package tools

import (
	"context"
	"fmt"
	"sort"

	"github.com/chefboost/chefboost/internal/domain"
	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/domain/search/result"
	"github.com/chefboost/chefboost/internal/domain/search/strategy"
	"github.com/chefboost/chefboost/internal/metrics"
	"github.com/chefboost/chefboost/internal/usecase/retrieve"
)

// Tool is a named retrieval operation an agent can invoke.
type Tool struct {
	Name        string
	Description string
	run         func(ctx context.Context, q query.Query) (result.Set, error)
}

// Registry maps stable tool names to retrieval operations. The names are
// part of the external contract consumed by agent prompts and must not
// change between releases.
type Registry struct {
	tools map[string]Tool
	order []string
}

// Fuser merges the output of several strategies into one ranked set.
type Fuser interface {
	Search(ctx context.Context, q query.Query, strategies []retrieve.Retriever) (result.Set, error)
}

// descriptions document each tool for listing and agent prompting.
var descriptions = map[string]string{
	string(strategy.Similarity): "Find recipes most similar to the query text.",
	string(strategy.SelfQuery):  "Find recipes by deriving structured filters (cuisine, recipe type, dietary needs) from the query.",
	string(strategy.MultiQuery): "Find recipes by searching several rephrasings of the query for wider coverage.",
	string(strategy.Hybrid):     "Find recipes by running every strategy and merging the best results.",
}

// NewRegistry builds the registry from the three leaf strategies and the
// fusion service. The hybrid tool runs all three and fuses.
func NewRegistry(fuser Fuser, similarity, selfQuery, multiQuery retrieve.Retriever) *Registry {
	r := &Registry{tools: make(map[string]Tool)}

	single := func(ret retrieve.Retriever) func(ctx context.Context, q query.Query) (result.Set, error) {
		return func(ctx context.Context, q query.Query) (result.Set, error) {
			return fuser.Search(ctx, q, []retrieve.Retriever{ret})
		}
	}

	r.register(string(strategy.Similarity), single(similarity))
	r.register(string(strategy.SelfQuery), single(selfQuery))
	r.register(string(strategy.MultiQuery), single(multiQuery))
	r.register(string(strategy.Hybrid), func(ctx context.Context, q query.Query) (result.Set, error) {
		return fuser.Search(ctx, q, []retrieve.Retriever{similarity, selfQuery, multiQuery})
	})

	return r
}

func (r *Registry) register(name string, run func(ctx context.Context, q query.Query) (result.Set, error)) {
	r.tools[name] = Tool{Name: name, Description: descriptions[name], run: run}
	r.order = append(r.order, name)
}

// List returns the registered tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Names returns the registered tool names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a tool name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Dispatch validates the tool name and routes the query to the matching
// operation. An unknown name fails immediately, before any store or model
// call; a known tool's result and error pass through unchanged.
func (r *Registry) Dispatch(ctx context.Context, toolName string, q query.Query) (result.Set, error) {
	tool, ok := r.tools[toolName]
	if !ok {
		// Unregistered names are caller input, so they never become a label.
		metrics.ToolDispatchTotal.WithLabelValues("unknown", "rejected").Inc()
		return result.EmptySet(), fmt.Errorf("%w: %q", domain.ErrUnknownTool, toolName)
	}

	set, err := tool.run(ctx, q)
	if err != nil {
		metrics.ToolDispatchTotal.WithLabelValues(toolName, "error").Inc()
		return result.EmptySet(), err
	}
	metrics.ToolDispatchTotal.WithLabelValues(toolName, "success").Inc()
	return set, nil
}
