// Package search orchestrates the full sourcing pipeline: reference image
// handling, criteria extraction, territory-scoped filtering, relevance
// scoring, and result grouping.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gofedgroup/sourcing/internal/domain"
	domcrit "github.com/gofedgroup/sourcing/internal/domain/criteria"
	"github.com/gofedgroup/sourcing/internal/domain/product"
	"github.com/gofedgroup/sourcing/internal/domain/search/filter"
	"github.com/gofedgroup/sourcing/internal/domain/search/result"
	"github.com/gofedgroup/sourcing/internal/domain/search/scoring"
	"github.com/gofedgroup/sourcing/internal/metrics"
	"github.com/gofedgroup/sourcing/internal/transport/webhook"
	"github.com/gofedgroup/sourcing/internal/usecase/extraction"
)

// Options tune the ranking stage.
type Options struct {
	Weights    scoring.Weights
	MinScore   float64
	MaxResults int
}

// Service runs sourcing searches end to end.
type Service struct {
	extractor CriteriaExtractor
	territory TerritoryCatalog
	blobs     BlobStore
	records   CriteriaRepository
	notifier  Notifier
	opts      Options
	logger    *zap.Logger
}

// New creates a search service.
func New(
	extractor CriteriaExtractor,
	territory TerritoryCatalog,
	blobs BlobStore,
	records CriteriaRepository,
	notifier Notifier,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 100
	}
	if opts.MinScore <= 0 {
		opts.MinScore = 0.1
	}
	if opts.Weights == (scoring.Weights{}) {
		opts.Weights = scoring.DefaultWeights()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		extractor: extractor,
		territory: territory,
		blobs:     blobs,
		records:   records,
		notifier:  notifier,
		opts:      opts,
		logger:    logger,
	}
}

// Input is a single search submission.
type Input struct {
	ProjectName string
	Email       string
	Sector      []string
	Keywords    string
	BudgetTier  string
	Territory   string
	Image       []byte
	ImageName   string
}

// Output is the completed search response. Products is the flat ranked list;
// Groups holds the same items grouped by brand in ranking order.
type Output struct {
	CriteriaID string
	Criteria   domcrit.Criteria
	ImageURL   string
	Total      int
	Products   []result.ScoredProduct
	Groups     []result.BrandGroup
}

// Search runs the full pipeline. An uploaded reference image is removed
// before returning on every path, success or failure.
func (s *Service) Search(ctx context.Context, in Input) (Output, error) {
	if strings.TrimSpace(in.Territory) == "" {
		return Output{}, fmt.Errorf("%w: territory is required", domain.ErrInvalidInput)
	}
	userKeywords := domcrit.NormalizeKeywordInput(in.Keywords)
	if len(in.Image) == 0 && len(userKeywords) == 0 {
		return Output{}, fmt.Errorf(
			"%w: provide a reference image or at least one keyword", domain.ErrInvalidInput)
	}

	var imageURL string
	if len(in.Image) > 0 {
		blob, err := s.blobs.Upload(ctx, in.Image, in.ImageName)
		if err != nil {
			return Output{}, fmt.Errorf("upload reference image: %w", err)
		}
		imageURL = blob.URL

		// Cleanup must survive request cancellation.
		defer func() {
			cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := s.blobs.Delete(cleanupCtx, blob.Key); err != nil {
				s.logger.Warn("reference image cleanup failed",
					zap.String("key", blob.Key), zap.Error(err))
			}
		}()
	}

	criteria, err := s.extractor.Extract(ctx, extraction.Input{
		ImageURL: imageURL,
		Sector:   in.Sector,
		Keywords: userKeywords,
	})
	if err != nil {
		return Output{}, err
	}

	products, err := s.territory.ProductsForTerritory(ctx, in.Territory, filter.Build(&criteria))
	if err != nil {
		return Output{}, err
	}

	ranked := s.rank(products, &criteria)
	metrics.SearchResultsReturned.Observe(float64(len(ranked)))

	record, err := s.saveRecord(ctx, in, userKeywords, imageURL, criteria)
	if err != nil {
		return Output{}, err
	}

	s.notify(ctx, in, userKeywords, imageURL)

	s.logger.Info("search completed",
		zap.String("criteria_id", record.ID()),
		zap.String("territory", in.Territory),
		zap.Int("candidates", len(products)),
		zap.Int("results", len(ranked)),
	)

	return Output{
		CriteriaID: record.ID(),
		Criteria:   criteria,
		ImageURL:   record.ImageURL(),
		Total:      len(ranked),
		Products:   ranked,
		Groups:     result.GroupByBrand(ranked),
	}, nil
}

// SearchByCriteria replays a previously saved search against the current
// catalog. The reference image is gone by now, so ranking uses the stored
// combined criteria only.
func (s *Service) SearchByCriteria(ctx context.Context, id string) (Output, error) {
	record, err := s.records.Get(ctx, id)
	if err != nil {
		return Output{}, err
	}

	criteria := *record.Combined()
	products, err := s.territory.ProductsForTerritory(ctx, record.Territory(), filter.Build(&criteria))
	if err != nil {
		return Output{}, err
	}

	ranked := s.rank(products, &criteria)
	metrics.SearchResultsReturned.Observe(float64(len(ranked)))

	return Output{
		CriteriaID: record.ID(),
		Criteria:   criteria,
		Total:      len(ranked),
		Products:   ranked,
		Groups:     result.GroupByBrand(ranked),
	}, nil
}

// rank scores candidates, drops those below the threshold, orders the rest by
// score descending (ties keep catalog order), and caps the list.
func (s *Service) rank(products []product.Product, criteria *domcrit.Criteria) []result.ScoredProduct {
	ranked := make([]result.ScoredProduct, 0, len(products))
	for i := range products {
		score := scoring.Score(&products[i], criteria, s.opts.Weights)
		if score <= s.opts.MinScore {
			continue
		}
		ranked = append(ranked, result.New(products[i], score))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})

	if len(ranked) > s.opts.MaxResults {
		ranked = ranked[:s.opts.MaxResults]
	}
	return ranked
}

func (s *Service) saveRecord(
	ctx context.Context, in Input, userKeywords []string, imageURL string, criteria domcrit.Criteria,
) (domcrit.Record, error) {
	record, err := domcrit.NewRecord(
		uuid.NewString(), in.ProjectName, in.Email, in.Sector, userKeywords,
		in.BudgetTier, strings.ToUpper(strings.TrimSpace(in.Territory)), imageURL, criteria,
	)
	if err != nil {
		return domcrit.Record{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.records.Save(ctx, &record); err != nil {
		return domcrit.Record{}, err
	}
	return record, nil
}

// notify dispatches the lead webhook without blocking or failing the search.
func (s *Service) notify(ctx context.Context, in Input, userKeywords []string, imageURL string) {
	if s.notifier == nil || !s.notifier.Enabled() || in.Email == "" {
		return
	}

	lead := webhook.Lead{
		Email:       in.Email,
		ProjectName: in.ProjectName,
		Sector:      in.Sector,
		BudgetTier:  in.BudgetTier,
		Keywords:    userKeywords,
		ImageURL:    imageURL,
	}
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.notifier.Notify(notifyCtx, lead); err != nil {
			s.logger.Warn("lead notification failed", zap.Error(err))
		}
	}()
}
