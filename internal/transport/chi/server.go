// Package chi implements the HTTP API on the chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gofedgroup/sourcing/internal/domain"
	cataloguc "github.com/gofedgroup/sourcing/internal/usecase/catalog"
	healthuc "github.com/gofedgroup/sourcing/internal/usecase/health"
	searchuc "github.com/gofedgroup/sourcing/internal/usecase/search"
	territoryuc "github.com/gofedgroup/sourcing/internal/usecase/territory"
)

// Error codes returned to clients.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeExtractionFailed = "extraction_failed"
	codeUpstreamError    = "upstream_error"
	codeUnavailable      = "service_unavailable"
	codeInternalError    = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// BlobReader serves uploaded reference images back to the extraction model.
type BlobReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Server exposes the sourcing API over HTTP.
type Server struct {
	search        *searchuc.Service
	territory     *territoryuc.Service
	catalog       *cataloguc.Service
	health        *healthuc.Service
	blobs         BlobReader
	adminTokens   []string
	maxUploadSize int64
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	territory *territoryuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	blobs BlobReader,
	adminTokens []string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:        search,
		territory:     territory,
		catalog:       catalog,
		health:        health,
		blobs:         blobs,
		adminTokens:   adminTokens,
		maxUploadSize: 10 << 20,
		logger:        logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrCriteriaNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrBlobNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrNonTaxonomyValue, http.StatusUnprocessableEntity, codeExtractionFailed),
		sentinelHandler(domain.ErrMalformedOutput, http.StatusBadGateway, codeExtractionFailed),
		sentinelHandler(domain.ErrIncompleteOutput, http.StatusBadGateway, codeExtractionFailed),
		sentinelHandler(domain.ErrUpstreamUnavailable, http.StatusBadGateway, codeUpstreamError),
		sentinelHandler(domain.ErrStorageFailure, http.StatusServiceUnavailable, codeUnavailable),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, codeUnavailable),
	}
	return s
}

// Routes mounts all handlers on a fresh router. Global middleware (recovery,
// request IDs, metrics) is attached by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/api/search", s.Search)
	r.Get("/api/search-by-criteria", s.SearchByCriteria)
	r.Get("/api/territories", s.ListTerritories)
	r.Get("/uploads/{key}", s.ServeUpload)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(s.adminTokens))

		r.Post("/products", s.CreateProduct)
		r.Get("/products", s.ListProducts)
		r.Get("/products/{id}", s.GetProduct)
		r.Put("/products/{id}", s.UpdateProduct)
		r.Delete("/products/{id}", s.DeleteProduct)

		r.Get("/territories/brands", s.ListBrandConfigs)
		r.Put("/territories/brands/{brand}", s.SetBrandTerritories)
		r.Delete("/territories/brands/{brand}", s.DeleteBrandConfig)
		r.Post("/territories", s.UpsertTerritory)
		r.Post("/territories/sync", s.SyncTerritories)
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
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

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrProductNotFound,
		domain.ErrCriteriaNotFound,
		domain.ErrBlobNotFound,
		domain.ErrNonTaxonomyValue,
		domain.ErrMalformedOutput,
		domain.ErrIncompleteOutput,
		domain.ErrUpstreamUnavailable,
		domain.ErrStorageFailure,
		domain.ErrCatalogUnavailable,
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

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
