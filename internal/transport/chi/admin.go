package chi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	domterr "github.com/gofedgroup/sourcing/internal/domain/territory"
)

// CreateProduct handles POST /api/admin/products.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := s.catalog.Create(r.Context(), fieldsFromRequest(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, productToResponse(&p))
}

// UpdateProduct handles PUT /api/admin/products/{id}.
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := s.catalog.Update(r.Context(), id, fieldsFromRequest(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productToResponse(&p))
}

// GetProduct handles GET /api/admin/products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productToResponse(&p))
}

// DeleteProduct handles DELETE /api/admin/products/{id}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProducts handles GET /api/admin/products?page=N&limit=M.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0)

	result, err := s.catalog.List(r.Context(), page, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	products := make([]productResponse, len(result.Products))
	for i := range result.Products {
		products[i] = productToResponse(&result.Products[i])
	}

	writeJSON(w, http.StatusOK, productListResponse{
		Products: products,
		Page:     result.Page,
		Limit:    result.Limit,
		Total:    result.Total,
		Pages:    result.Pages,
	})
}

// ListBrandConfigs handles GET /api/admin/territories/brands.
func (s *Server) ListBrandConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.territory.ListBrandConfigs(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]brandConfigResponse, len(configs))
	for i := range configs {
		items[i] = brandConfigResponse{
			BrandName:   configs[i].BrandName(),
			Territories: configs[i].Territories(),
		}
	}
	writeJSON(w, http.StatusOK, items)
}

// SetBrandTerritories handles PUT /api/admin/territories/brands/{brand}.
func (s *Server) SetBrandTerritories(w http.ResponseWriter, r *http.Request) {
	brand := chi.URLParam(r, "brand")

	var req setTerritoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	cfg, err := s.territory.SetBrandTerritories(r.Context(), brand, req.Territories)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, brandConfigResponse{
		BrandName:   cfg.BrandName(),
		Territories: cfg.Territories(),
	})
}

// DeleteBrandConfig handles DELETE /api/admin/territories/brands/{brand}.
func (s *Server) DeleteBrandConfig(w http.ResponseWriter, r *http.Request) {
	if err := s.territory.RemoveBrand(r.Context(), chi.URLParam(r, "brand")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertTerritory handles POST /api/admin/territories.
func (s *Server) UpsertTerritory(w http.ResponseWriter, r *http.Request) {
	var req upsertTerritoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	t, err := domterr.NewTerritory(req.Code, req.Name, req.Region, active)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.territory.UpsertTerritory(r.Context(), t); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, territoryToResponse(&t))
}

// SyncTerritories handles POST /api/admin/territories/sync.
func (s *Server) SyncTerritories(w http.ResponseWriter, r *http.Request) {
	updated, err := s.territory.SyncProductTerritories(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Updated: updated})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
