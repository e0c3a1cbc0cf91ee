package search

import (
	"context"

	domcrit "github.com/gofedgroup/sourcing/internal/domain/criteria"
	"github.com/gofedgroup/sourcing/internal/domain/product"
	"github.com/gofedgroup/sourcing/internal/domain/search/filter"
	"github.com/gofedgroup/sourcing/internal/repository/blob"
	"github.com/gofedgroup/sourcing/internal/transport/webhook"
	"github.com/gofedgroup/sourcing/internal/usecase/extraction"
)

// CriteriaExtractor turns user input into validated search criteria.
type CriteriaExtractor interface {
	Extract(ctx context.Context, in extraction.Input) (domcrit.Criteria, error)
}

// TerritoryCatalog loads the filtered product set visible in a territory.
type TerritoryCatalog interface {
	ProductsForTerritory(ctx context.Context, code string, f filter.Filter) ([]product.Product, error)
}

// BlobStore holds transient reference images for the duration of a search.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, name string) (blob.Blob, error)
	Delete(ctx context.Context, key string) error
}

// CriteriaRepository persists search criteria records for later replay.
type CriteriaRepository interface {
	Save(ctx context.Context, rec *domcrit.Record) error
	Get(ctx context.Context, id string) (domcrit.Record, error)
}

// Notifier delivers lead notifications after a completed search.
type Notifier interface {
	Enabled() bool
	Notify(ctx context.Context, lead webhook.Lead) error
}
