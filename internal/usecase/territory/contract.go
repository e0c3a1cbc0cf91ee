package territory

import (
	"context"

	"github.com/gofedgroup/sourcing/internal/domain/product"
	domterr "github.com/gofedgroup/sourcing/internal/domain/territory"
)

// ConfigRepository stores brand-to-territory assignments.
type ConfigRepository interface {
	UpsertBrandConfig(ctx context.Context, cfg *domterr.BrandConfig) error
	GetBrandConfig(ctx context.Context, brandName string) (domterr.BrandConfig, bool, error)
	AllBrandConfigs(ctx context.Context) ([]domterr.BrandConfig, error)
	DeleteBrandConfig(ctx context.Context, brandName string) error
}

// TerritoryRepository stores the territory directory itself.
type TerritoryRepository interface {
	UpsertTerritory(ctx context.Context, t *domterr.Territory) error
	AllTerritories(ctx context.Context) ([]domterr.Territory, error)
}

// CatalogReader loads products for territory-scoped queries.
type CatalogReader interface {
	Get(ctx context.Context, id string) (product.Product, error)
	FetchByBrands(ctx context.Context, brands []string) ([]product.Product, error)
}

// CatalogWriter persists products when their territory annotations change.
type CatalogWriter interface {
	Upsert(ctx context.Context, p *product.Product) error
}
