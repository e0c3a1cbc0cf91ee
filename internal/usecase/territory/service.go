// Package territory resolves which brands, and therefore which products, are
// available in a given sales territory.
package territory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gofedgroup/sourcing/internal/domain"
	"github.com/gofedgroup/sourcing/internal/domain/product"
	"github.com/gofedgroup/sourcing/internal/domain/search/filter"
	domterr "github.com/gofedgroup/sourcing/internal/domain/territory"
)

// Service answers territory availability questions and manages the
// brand-to-territory mapping.
type Service struct {
	configs     ConfigRepository
	territories TerritoryRepository
	catalog     CatalogReader
	writer      CatalogWriter
	logger      *zap.Logger
}

// New creates a territory service.
func New(
	configs ConfigRepository,
	territories TerritoryRepository,
	catalog CatalogReader,
	writer CatalogWriter,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		configs:     configs,
		territories: territories,
		catalog:     catalog,
		writer:      writer,
		logger:      logger,
	}
}

// BrandsForTerritory returns the brands whose configuration covers the given
// territory code. An unknown code yields an empty slice, not an error.
func (s *Service) BrandsForTerritory(ctx context.Context, code string) ([]string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}

	configs, err := s.configs.AllBrandConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load brand configs: %w", err)
	}

	brands := make([]string, 0, len(configs))
	for _, cfg := range configs {
		if cfg.Covers(code) {
			brands = append(brands, cfg.BrandName())
		}
	}
	return brands, nil
}

// ProductsForTerritory returns every product of a territory's brands that the
// given filter matches. A zero-value filter matches the whole slice.
func (s *Service) ProductsForTerritory(
	ctx context.Context, code string, f filter.Filter,
) ([]product.Product, error) {
	brands, err := s.BrandsForTerritory(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(brands) == 0 {
		return nil, nil
	}

	products, err := s.catalog.FetchByBrands(ctx, brands)
	if err != nil {
		return nil, fmt.Errorf("fetch territory catalog: %w", err)
	}

	matched := products[:0]
	for i := range products {
		if f.Matches(&products[i]) {
			matched = append(matched, products[i])
		}
	}
	return matched, nil
}

// IsAvailable reports whether a product is offered in a territory, based on
// its brand's configuration. Unknown products are simply not available.
func (s *Service) IsAvailable(ctx context.Context, productID, code string) (bool, error) {
	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get product %q: %w", productID, err)
	}

	cfg, found, err := s.configs.GetBrandConfig(ctx, p.BrandName())
	if err != nil {
		return false, fmt.Errorf("get brand config: %w", err)
	}
	if !found {
		return false, nil
	}
	return cfg.Covers(strings.ToUpper(strings.TrimSpace(code))), nil
}

// SetBrandTerritories replaces a brand's territory assignment. Codes are
// normalized (uppercased, deduplicated) before storage; repeating the call
// with the same input is a no-op.
func (s *Service) SetBrandTerritories(ctx context.Context, brandName string, codes []string) (domterr.BrandConfig, error) {
	cfg, err := domterr.NewBrandConfig(brandName, domterr.NormalizeCodes(codes))
	if err != nil {
		return domterr.BrandConfig{}, err
	}
	if err := s.configs.UpsertBrandConfig(ctx, &cfg); err != nil {
		return domterr.BrandConfig{}, fmt.Errorf("store brand config: %w", err)
	}
	return cfg, nil
}

// ListBrandConfigs returns every brand's territory assignment.
func (s *Service) ListBrandConfigs(ctx context.Context) ([]domterr.BrandConfig, error) {
	configs, err := s.configs.AllBrandConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load brand configs: %w", err)
	}
	return configs, nil
}

// RemoveBrand deletes a brand's territory assignment.
func (s *Service) RemoveBrand(ctx context.Context, brandName string) error {
	if err := s.configs.DeleteBrandConfig(ctx, brandName); err != nil {
		return fmt.Errorf("delete brand config: %w", err)
	}
	return nil
}

// SyncProductTerritories rewrites every product's availableTerritories field
// from its brand's current configuration and reports how many products were
// updated. Products of brands without a configuration are left untouched.
func (s *Service) SyncProductTerritories(ctx context.Context) (int, error) {
	configs, err := s.configs.AllBrandConfigs(ctx)
	if err != nil {
		return 0, fmt.Errorf("load brand configs: %w", err)
	}

	updated := 0
	for _, cfg := range configs {
		products, err := s.catalog.FetchByBrands(ctx, []string{cfg.BrandName()})
		if err != nil {
			return updated, fmt.Errorf("fetch products for %q: %w", cfg.BrandName(), err)
		}
		for _, p := range products {
			next := p.WithTerritories(cfg.Territories())
			if err := s.writer.Upsert(ctx, &next); err != nil {
				return updated, fmt.Errorf("sync product %q: %w", p.ID(), err)
			}
			updated++
		}
	}

	s.logger.Info("synced product territories", zap.Int("updated", updated))
	return updated, nil
}

// ListTerritories returns the active territories sorted by region then name.
func (s *Service) ListTerritories(ctx context.Context) ([]domterr.Territory, error) {
	all, err := s.territories.AllTerritories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load territories: %w", err)
	}

	active := make([]domterr.Territory, 0, len(all))
	for _, t := range all {
		if t.Active() {
			active = append(active, t)
		}
	}
	domterr.SortTerritories(active)
	return active, nil
}

// UpsertTerritory adds or updates a territory directory entry.
func (s *Service) UpsertTerritory(ctx context.Context, t domterr.Territory) error {
	if err := s.territories.UpsertTerritory(ctx, &t); err != nil {
		return fmt.Errorf("store territory: %w", err)
	}
	return nil
}
