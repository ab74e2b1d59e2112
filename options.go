package chefboost

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Engine.
type Option func(*engineConfig)

type engineConfig struct {
	addrs    []string
	username string
	password string

	llmAPIKey  string
	llmBaseURL string
	llmModel   string
	maxTokens  int

	embeddingAPIKey  string
	embeddingBaseURL string
	embeddingModel   string
	embeddingDim     int

	indexName       string
	variantCount    int
	generateTimeout time.Duration
	cacheTTL        time.Duration // negative disables the embedding cache

	generator Generator
	embedder  Embedder
	logger    *zap.Logger
}

func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		llmModel:        "gpt-4o-mini",
		maxTokens:       512,
		embeddingModel:  "text-embedding-3-small",
		indexName:       "recipes",
		variantCount:    3,
		generateTimeout: 20 * time.Second,
	}
}

// WithRedis points the engine at a Redis-compatible document store.
func WithRedis(addrs []string, username, password string) Option {
	return func(c *engineConfig) {
		c.addrs = addrs
		c.username = username
		c.password = password
	}
}

// WithLLM configures the OpenAI-compatible text generation provider. baseURL
// and model may be empty for the defaults.
func WithLLM(apiKey, baseURL, model string) Option {
	return func(c *engineConfig) {
		c.llmAPIKey = apiKey
		c.llmBaseURL = baseURL
		if model != "" {
			c.llmModel = model
		}
	}
}

// WithEmbedding configures the OpenAI-compatible embedding provider.
// dimensions of zero keeps the model's native width.
func WithEmbedding(apiKey, baseURL, model string, dimensions int) Option {
	return func(c *engineConfig) {
		c.embeddingAPIKey = apiKey
		c.embeddingBaseURL = baseURL
		if model != "" {
			c.embeddingModel = model
		}
		c.embeddingDim = dimensions
	}
}

// WithGenerator installs a custom text generation provider instead of the
// OpenAI client.
func WithGenerator(g Generator) Option {
	return func(c *engineConfig) { c.generator = g }
}

// WithEmbedder installs a custom embedding provider instead of the OpenAI
// client.
func WithEmbedder(e Embedder) Option {
	return func(c *engineConfig) { c.embedder = e }
}

// WithIndex sets the recipe index name (default "recipes").
func WithIndex(name string) Option {
	return func(c *engineConfig) {
		if name != "" {
			c.indexName = name
		}
	}
}

// WithVariantCount sets how many rephrasings the multi-query strategy
// generates (default 3).
func WithVariantCount(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.variantCount = n
		}
	}
}

// WithGenerateTimeout bounds each LLM call (default 20s).
func WithGenerateTimeout(d time.Duration) Option {
	return func(c *engineConfig) { c.generateTimeout = d }
}

// WithEmbeddingCacheTTL sets the embedding cache expiry. Zero keeps vectors
// forever; the cache is on by default.
func WithEmbeddingCacheTTL(ttl time.Duration) Option {
	return func(c *engineConfig) { c.cacheTTL = ttl }
}

// WithoutEmbeddingCache disables the embedding cache.
func WithoutEmbeddingCache() Option {
	return func(c *engineConfig) { c.cacheTTL = -1 }
}

// WithLogger installs a logger; default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *engineConfig) { c.logger = l }
}

// WithMaxTokens caps each generation call's output (default 512).
func WithMaxTokens(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}
