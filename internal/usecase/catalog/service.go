// Package catalog implements product catalog administration.
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gofedgroup/sourcing/internal/domain"
	"github.com/gofedgroup/sourcing/internal/domain/product"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Service handles catalog CRUD for the admin surface.
type Service struct {
	repo   Repository
	brands BrandConfigReader
	logger *zap.Logger
}

// New creates a catalog service.
func New(repo Repository, brands BrandConfigReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, brands: brands, logger: logger}
}

// Page is one page of catalog listings.
type Page struct {
	Products []product.Product
	Page     int
	Limit    int
	Total    int
	Pages    int
}

// Create stores a new product. A missing ID is generated; the territory
// annotation is filled from the brand's configuration when one exists.
func (s *Service) Create(ctx context.Context, f product.Fields) (product.Product, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}

	if len(f.AvailableTerritories) == 0 && f.BrandName != "" {
		cfg, found, err := s.brands.GetBrandConfig(ctx, f.BrandName)
		if err != nil {
			return product.Product{}, fmt.Errorf("resolve brand territories: %w", err)
		}
		if found {
			f.AvailableTerritories = cfg.Territories()
		}
	}

	p, err := product.New(f)
	if err != nil {
		return product.Product{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Upsert(ctx, &p); err != nil {
		return product.Product{}, err
	}

	s.logger.Info("product created",
		zap.String("id", p.ID()), zap.String("brand", p.BrandName()))
	return p, nil
}

// Update replaces an existing product. The ID must already exist.
func (s *Service) Update(ctx context.Context, id string, f product.Fields) (product.Product, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return product.Product{}, err
	}

	f.ID = id
	if f.CreatedAt.IsZero() {
		f.CreatedAt = existing.CreatedAt()
	}

	p, err := product.New(f)
	if err != nil {
		return product.Product{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Upsert(ctx, &p); err != nil {
		return product.Product{}, err
	}
	return p, nil
}

// Get loads a single product.
func (s *Service) Get(ctx context.Context, id string) (product.Product, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes a product and its index entries.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("id", id))
	return nil
}

// List returns a page of products, newest first.
func (s *Service) List(ctx context.Context, page, limit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	products, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return Page{}, err
	}

	pages := (total + limit - 1) / limit
	return Page{
		Products: products,
		Page:     page,
		Limit:    limit,
		Total:    total,
		Pages:    pages,
	}, nil
}
