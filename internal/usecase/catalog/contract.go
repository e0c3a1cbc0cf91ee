package catalog

import (
	"context"

	"github.com/gofedgroup/sourcing/internal/domain/product"
	domterr "github.com/gofedgroup/sourcing/internal/domain/territory"
)

// Repository defines the storage contract for catalog administration.
type Repository interface {
	Upsert(ctx context.Context, p *product.Product) error
	Get(ctx context.Context, id string) (product.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int) ([]product.Product, int, error)
}

// BrandConfigReader resolves a brand's territory assignment so new products
// get their availability annotated at write time.
type BrandConfigReader interface {
	GetBrandConfig(ctx context.Context, brandName string) (domterr.BrandConfig, bool, error)
}
