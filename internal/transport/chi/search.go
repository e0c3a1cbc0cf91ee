package chi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	searchuc "github.com/gofedgroup/sourcing/internal/usecase/search"
)

// Search handles POST /api/search. The request is a multipart form with the
// project fields and an optional reference image.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	in := searchuc.Input{
		ProjectName: r.FormValue("projectName"),
		Email:       r.FormValue("email"),
		Sector:      splitFormList(r.FormValue("sector")),
		Keywords:    r.FormValue("keywords"),
		BudgetTier:  r.FormValue("budgetTier"),
		Territory:   r.FormValue("territory"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		data, name, readErr := readUpload(file, header, s.maxUploadSize)
		if readErr != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, readErr.Error())
			return
		}
		in.Image = data
		in.ImageName = name
	case errors.Is(err, http.ErrMissingFile):
		// Text-only search.
	default:
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid image upload: "+err.Error())
		return
	}

	out, err := s.search.Search(r.Context(), in)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		CriteriaID:      out.CriteriaID,
		Criteria:        criteriaToResponse(&out.Criteria),
		ImageURL:        out.ImageURL,
		Total:           out.Total,
		Products:        rankedToResponse(out.Products),
		GroupedProducts: groupsToResponse(out.Groups),
	})
}

// SearchByCriteria handles GET /api/search-by-criteria?criteriaId=<id>.
func (s *Server) SearchByCriteria(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("criteriaId"))
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "criteriaId query parameter is required")
		return
	}

	out, err := s.search.SearchByCriteria(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		CriteriaID:      out.CriteriaID,
		Criteria:        criteriaToResponse(&out.Criteria),
		Total:           out.Total,
		Products:        rankedToResponse(out.Products),
		GroupedProducts: groupsToResponse(out.Groups),
	})
}

// ListTerritories handles GET /api/territories.
func (s *Server) ListTerritories(w http.ResponseWriter, r *http.Request) {
	territories, err := s.territory.ListTerritories(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]territoryResponse, len(territories))
	for i := range territories {
		items[i] = territoryToResponse(&territories[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// ServeUpload handles GET /uploads/{key}. The extraction model fetches the
// reference image through this route.
func (s *Server) ServeUpload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	data, err := s.blobs.Get(r.Context(), key)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeForKey(key))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func readUpload(file multipart.File, header *multipart.FileHeader, limit int64) ([]byte, string, error) {
	defer file.Close()

	if header.Size > limit {
		return nil, "", errors.New("image exceeds upload size limit")
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, "", errors.New("read image: " + err.Error())
	}
	if int64(len(data)) > limit {
		return nil, "", errors.New("image exceeds upload size limit")
	}
	if len(data) == 0 {
		return nil, "", errors.New("image upload is empty")
	}
	return data, header.Filename, nil
}

// splitFormList splits a comma-separated form value into trimmed items.
func splitFormList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func contentTypeForKey(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
