// Package extraction turns free-form user input into taxonomy-bound search
// criteria via a vision/text model.
package extraction

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gofedgroup/sourcing/internal/domain"
	domcrit "github.com/gofedgroup/sourcing/internal/domain/criteria"
	"github.com/gofedgroup/sourcing/internal/domain/taxonomy"
	"github.com/gofedgroup/sourcing/internal/metrics"
	tropenai "github.com/gofedgroup/sourcing/internal/transport/openai"
)

// Service handles criteria extraction and taxonomy validation.
type Service struct {
	extractor Extractor
	tax       taxonomy.Taxonomy
	logger    *zap.Logger
}

// New creates an extraction service.
func New(extractor Extractor, tax taxonomy.Taxonomy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{extractor: extractor, tax: tax, logger: logger}
}

// Input carries a single extraction request.
type Input struct {
	ImageURL string
	Sector   []string
	Keywords []string
}

// Extract invokes the model, validates the output against the taxonomy, and
// merges the user's own keywords into the result. Values the model produced
// outside the taxonomy are dropped; the extraction fails only when dropping
// empties a required category.
func (s *Service) Extract(ctx context.Context, in Input) (domcrit.Criteria, error) {
	raw, err := s.extractor.Extract(ctx, in.ImageURL, tropenai.Form{
		Sector:   in.Sector,
		Keywords: in.Keywords,
	})
	if err != nil {
		return domcrit.Criteria{}, fmt.Errorf("extract criteria: %w", err)
	}

	keywords := s.filterToTaxonomy(taxonomy.CategoryKeyword, raw.Keywords)
	colors := s.filterToTaxonomy(taxonomy.CategoryColor, raw.ColorPalette)
	application := s.filterToTaxonomy(taxonomy.CategoryApplication, raw.Application)
	performance := s.filterToTaxonomy(taxonomy.CategoryPerformance, raw.Performance)

	if len(keywords) == 0 || len(colors) == 0 || len(application) == 0 {
		return domcrit.Criteria{}, fmt.Errorf(
			"%w: model output left a required category empty after validation",
			domain.ErrNonTaxonomyValue)
	}

	validated := domcrit.New(keywords, colors, application, performance)

	return validated.MergeKeywords(in.Keywords), nil
}

// filterToTaxonomy keeps only values that belong to the category's vocabulary.
func (s *Service) filterToTaxonomy(cat taxonomy.Category, values []string) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if s.tax.Contains(cat, v) {
			kept = append(kept, v)
			continue
		}
		metrics.TaxonomyRejectionsTotal.WithLabelValues(string(cat)).Inc()
		s.logger.Warn("dropped non-taxonomy value",
			zap.String("category", string(cat)),
			zap.String("value", v),
		)
	}
	return kept
}
