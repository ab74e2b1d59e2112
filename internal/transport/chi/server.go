// Package chi exposes the tool registry over HTTP with hand-written chi
// handlers.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chefboost/chefboost/internal/domain"
	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/domain/search/result"
	"github.com/chefboost/chefboost/internal/metrics"
	healthuc "github.com/chefboost/chefboost/internal/usecase/health"
	toolsuc "github.com/chefboost/chefboost/internal/usecase/tools"
)

// Dispatcher routes a named tool invocation to its retrieval operation.
type Dispatcher interface {
	List() []toolsuc.Tool
	Dispatch(ctx context.Context, toolName string, q query.Query) (result.Set, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the retrieval tool API.
type Server struct {
	dispatcher    Dispatcher
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(dispatcher Dispatcher, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		dispatcher: dispatcher,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		strategyFailureHandler,
		sentinelHandler(domain.ErrUnknownTool, http.StatusNotFound, "unknown_tool"),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, "invalid_query"),
		sentinelHandler(domain.ErrStoreTimeout, http.StatusGatewayTimeout, "store_timeout"),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"),
		sentinelHandler(domain.ErrGeneration, http.StatusBadGateway, "generation_failed"),
	}
	return s
}

// Routes mounts the API on a fresh chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())

	r.Get("/v1/tools", s.ListTools)
	r.Post("/v1/tools/{tool}/search", s.SearchTool)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}

// toolResponse describes one registered tool.
type toolResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// searchRequest is the body of POST /v1/tools/{tool}/search.
type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k,omitempty"`
}

// searchResultItem is one ranked candidate in a search response.
type searchResultItem struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Strategy string            `json:"strategy"`
}

type searchResponse struct {
	Items []searchResultItem `json:"items"`
	Total int                `json:"total"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListTools handles GET /v1/tools.
func (s *Server) ListTools(w http.ResponseWriter, r *http.Request) {
	listed := s.dispatcher.List()

	items := make([]toolResponse, len(listed))
	for i, tool := range listed {
		items[i] = toolResponse{Name: tool.Name, Description: tool.Description}
	}

	writeJSON(w, http.StatusOK, map[string][]toolResponse{"tools": items})
}

// SearchTool handles POST /v1/tools/{tool}/search.
func (s *Server) SearchTool(w http.ResponseWriter, r *http.Request) {
	toolName := chi.URLParam(r, "tool")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	q, err := query.New(req.Query, req.K, "")
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	set, err := s.dispatcher.Dispatch(r.Context(), toolName, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchResultItem, 0, set.Len())
	for _, res := range set.Entries() {
		items = append(items, searchResultItem{
			ID:       res.ID(),
			Score:    res.Score(),
			Content:  res.Content(),
			Metadata: res.Metadata(),
			Strategy: res.Source().String(),
		})
	}

	writeJSON(w, http.StatusOK, searchResponse{Items: items, Total: len(items)})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownTool,
		domain.ErrInvalidQuery,
		domain.ErrStoreTimeout,
		domain.ErrStoreUnavailable,
		domain.ErrGeneration,
		domain.ErrNoStrategies,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// strategyFailureHandler reports total retrieval failure with the failed
// strategy names.
func strategyFailureHandler(w http.ResponseWriter, err error, msg string) bool {
	var sfe *domain.StrategyFailureError
	if !errors.As(err, &sfe) {
		return false
	}
	writeJSON(w, http.StatusBadGateway, map[string]any{
		"code":       "all_strategies_failed",
		"message":    "every retrieval strategy failed",
		"strategies": sfe.Strategies(),
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
