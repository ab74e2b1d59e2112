package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/chefboost/chefboost/internal/config"
	"github.com/chefboost/chefboost/internal/db"
	dbRedis "github.com/chefboost/chefboost/internal/db/redis"
	logpkg "github.com/chefboost/chefboost/internal/logger"
	"github.com/chefboost/chefboost/internal/metrics"
	"github.com/chefboost/chefboost/internal/repository/embcache"
	"github.com/chefboost/chefboost/internal/repository/recipes"
	chiTransport "github.com/chefboost/chefboost/internal/transport/chi"
	openaiTransport "github.com/chefboost/chefboost/internal/transport/openai"
	expanduc "github.com/chefboost/chefboost/internal/usecase/expand"
	fusionuc "github.com/chefboost/chefboost/internal/usecase/fusion"
	healthuc "github.com/chefboost/chefboost/internal/usecase/health"
	retrieveuc "github.com/chefboost/chefboost/internal/usecase/retrieve"
	selfqueryuc "github.com/chefboost/chefboost/internal/usecase/selfquery"
	toolsuc "github.com/chefboost/chefboost/internal/usecase/tools"
	"github.com/chefboost/chefboost/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting chefboost retrieval server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create document store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Document store not ready", zap.Error(err))
	}
	logger.Info("Connected to document store")

	if err := ensureIndex(ctx, store, cfg); err != nil {
		logger.Fatal("Failed to ensure recipe index", zap.Error(err))
	}

	// Register retrieval metrics explicitly (no init())
	metrics.RegisterRetrievalMetrics()

	// Embedder chain: OpenAI -> cached
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	embedder := embcache.New(
		baseEmbedder, store,
		time.Duration(cfg.Embedding.CacheTTLHr)*time.Hour,
		metrics.EmbeddingCacheTotal, logger,
	)

	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Logger:  logger,
	})

	repo := recipes.New(store, embedder, cfg.Index.Name).
		WithTimeout(time.Duration(cfg.Retrieval.StoreTimeoutSec) * time.Second)

	generateTimeout := time.Duration(cfg.Retrieval.GenerateTimeoutSec) * time.Second
	expander := expanduc.New(generator, cfg.LLM.MaxTokens, generateTimeout)
	translator := selfqueryuc.New(generator, cfg.LLM.MaxTokens, generateTimeout)

	similarity := retrieveuc.NewSimilarity(repo)
	selfQuery := retrieveuc.NewSelfQuery(repo, translator)
	multiQuery := retrieveuc.NewMultiQuery(repo, expander, cfg.Retrieval.VariantCount)

	registry := toolsuc.NewRegistry(fusionuc.New(), similarity, selfQuery, multiQuery)

	healthSvc := healthuc.New(store, generator, baseEmbedder)

	server := chiTransport.NewServer(registry, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// ensureIndex creates the recipe FT index when it does not exist yet. The
// ingestion pipeline owns the documents; an empty index just yields empty
// search results.
func ensureIndex(ctx context.Context, store db.Store, cfg config.Config) error {
	def, err := recipes.IndexDefinition(
		cfg.Index.Name, cfg.Embedding.Dimensions,
		cfg.Index.HNSWM, cfg.Index.HNSWEFConstruct,
	)
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	exists, err := store.IndexExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	if err := store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			reqCtx := logpkg.ContextWith(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(reqCtx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
