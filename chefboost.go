// Package chefboost embeds the recipe retrieval engine in-process: the same
// strategies, fusion and tool registry the HTTP server exposes, wired behind
// a small client facade.
package chefboost

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chefboost/chefboost/internal/db"
	dbRedis "github.com/chefboost/chefboost/internal/db/redis"
	"github.com/chefboost/chefboost/internal/domain"
	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/domain/search/result"
	"github.com/chefboost/chefboost/internal/repository/embcache"
	"github.com/chefboost/chefboost/internal/repository/recipes"
	openaiTransport "github.com/chefboost/chefboost/internal/transport/openai"
	expanduc "github.com/chefboost/chefboost/internal/usecase/expand"
	fusionuc "github.com/chefboost/chefboost/internal/usecase/fusion"
	retrieveuc "github.com/chefboost/chefboost/internal/usecase/retrieve"
	selfqueryuc "github.com/chefboost/chefboost/internal/usecase/selfquery"
	toolsuc "github.com/chefboost/chefboost/internal/usecase/tools"
)

const defaultReadinessTimeout = 10 * time.Second

// Tool describes a retrieval operation an agent can invoke by name.
type Tool struct {
	Name        string
	Description string
}

// Candidate is one ranked document returned by a retrieval tool.
type Candidate struct {
	ID       string
	Score    float64
	Content  string
	Metadata map[string]string
	Strategy string
}

// dispatcher routes tool invocations; satisfied by the internal registry.
type dispatcher interface {
	List() []toolsuc.Tool
	Dispatch(ctx context.Context, toolName string, q query.Query) (result.Set, error)
}

// Engine is the in-process retrieval engine entry point.
type Engine struct {
	store      db.Store
	dispatcher dispatcher
}

// New creates an Engine and connects to the document store.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("chefboost: document store address required (use WithRedis)")
	}
	if cfg.generator == nil && cfg.llmAPIKey == "" {
		return nil, errors.New("chefboost: LLM API key or custom generator required")
	}
	if cfg.embedder == nil && cfg.embeddingAPIKey == "" {
		return nil, errors.New("chefboost: embedding API key or custom embedder required")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("chefboost: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("chefboost: document store not ready: %w", err)
	}

	return wireEngine(store, cfg), nil
}

func wireEngine(store db.Store, cfg *engineConfig) *Engine {
	log := cfg.logger
	if log == nil {
		log = zap.NewNop()
	}

	generator := cfg.generator
	if generator == nil {
		generator = openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
			APIKey:  cfg.llmAPIKey,
			BaseURL: cfg.llmBaseURL,
			Model:   cfg.llmModel,
			Logger:  log,
		})
	}

	var embedder domain.Embedder
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	} else {
		embedder = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
			APIKey:     cfg.embeddingAPIKey,
			BaseURL:    cfg.embeddingBaseURL,
			Model:      cfg.embeddingModel,
			Dimensions: cfg.embeddingDim,
			Logger:     log,
		})
	}
	if cfg.cacheTTL >= 0 {
		embedder = embcache.New(embedder, store, cfg.cacheTTL, nil, log)
	}

	repo := recipes.New(store, embedder, cfg.indexName)

	expander := expanduc.New(generator, cfg.maxTokens, cfg.generateTimeout)
	translator := selfqueryuc.New(generator, cfg.maxTokens, cfg.generateTimeout)

	registry := toolsuc.NewRegistry(
		fusionuc.New(),
		retrieveuc.NewSimilarity(repo),
		retrieveuc.NewSelfQuery(repo, translator),
		retrieveuc.NewMultiQuery(repo, expander, cfg.variantCount),
	)

	return &Engine{store: store, dispatcher: registry}
}

// Close releases all resources.
func (e *Engine) Close() {
	if e.store != nil {
		e.store.Close()
	}
}

// Ping checks document store connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	if err := e.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Tools lists the registered retrieval tools for agent prompting.
func (e *Engine) Tools() []Tool {
	listed := e.dispatcher.List()
	out := make([]Tool, len(listed))
	for i, t := range listed {
		out[i] = Tool{Name: t.Name, Description: t.Description}
	}
	return out
}

// Dispatch invokes a retrieval tool by name.
func (e *Engine) Dispatch(ctx context.Context, toolName, text string, k int) ([]Candidate, error) {
	q, err := query.New(text, k, "")
	if err != nil {
		return nil, fmt.Errorf("chefboost: %w", err)
	}

	set, err := e.dispatcher.Dispatch(ctx, toolName, q)
	if err != nil {
		return nil, fmt.Errorf("chefboost: dispatch %q: %w", toolName, err)
	}
	return candidatesFromSet(set), nil
}

// Search runs the hybrid tool: every strategy fused into one ranked list.
func (e *Engine) Search(ctx context.Context, text string, k int) ([]Candidate, error) {
	return e.Dispatch(ctx, "hybrid", text, k)
}

func candidatesFromSet(set result.Set) []Candidate {
	out := make([]Candidate, 0, set.Len())
	for _, res := range set.Entries() {
		out = append(out, Candidate{
			ID:       res.ID(),
			Score:    res.Score(),
			Content:  res.Content(),
			Metadata: res.Metadata(),
			Strategy: res.Source().String(),
		})
	}
	return out
}

// Generator produces text from a prompt. Implement to bring a custom LLM.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Embedder vectorizes text. Implement to bring a custom embedding provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}
