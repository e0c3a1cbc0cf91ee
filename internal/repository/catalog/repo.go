// Package catalog persists catalog items with brand and recency indexes.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofedgroup/sourcing/internal/db"
	"github.com/gofedgroup/sourcing/internal/domain"
	"github.com/gofedgroup/sourcing/internal/domain/product"
)

// DefaultKeyPrefix namespaces all catalog keys.
const DefaultKeyPrefix = "sourcing:"

// store is the consumer interface for catalog persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRem(ctx context.Context, key string, member string) error
	ZRevRange(ctx context.Context, key string, offset, count int) ([]string, error)
	ZCard(ctx context.Context, key string) (int, error)
}

// Repo implements catalog item persistence over a Redis-compatible store.
// Items are JSON values; a per-brand set indexes item IDs for territory
// fetches and a createdAt zset orders items for admin pagination.
type Repo struct {
	store  store
	prefix string
}

// New creates a catalog repository.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Upsert creates or updates a catalog item, maintaining both indexes.
// If the item moved to a different brand, the old brand index entry is removed.
func (r *Repo) Upsert(ctx context.Context, p *product.Product) error {
	key := r.productKey(p.ID())

	if existing, err := r.Get(ctx, p.ID()); err == nil {
		if existing.BrandName() != p.BrandName() {
			if err := r.store.SRem(ctx, r.brandKey(existing.BrandName()), p.ID()); err != nil {
				return fmt.Errorf("unindex old brand: %w", err)
			}
		}
	} else if !errors.Is(err, domain.ErrProductNotFound) {
		return err
	}

	data, err := json.Marshal(toDTO(p))
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", p.ID(), err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := r.store.SAdd(ctx, r.brandKey(p.BrandName()), p.ID()); err != nil {
		return fmt.Errorf("index brand %s: %w", p.BrandName(), err)
	}
	if err := r.store.ZAdd(ctx, r.createdKey(), float64(p.CreatedAt().UnixMilli()), p.ID()); err != nil {
		return fmt.Errorf("index created: %w", err)
	}
	return nil
}

// Get returns a catalog item by ID.
func (r *Repo) Get(ctx context.Context, id string) (product.Product, error) {
	data, err := r.store.Get(ctx, r.productKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return product.Product{}, domain.ErrProductNotFound
		}
		return product.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return parseProduct(id, data)
}

// Delete removes a catalog item and its index entries.
func (r *Repo) Delete(ctx context.Context, id string) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Del(ctx, r.productKey(id)); err != nil {
		return fmt.Errorf("del product %s: %w", id, err)
	}
	if err := r.store.SRem(ctx, r.brandKey(p.BrandName()), id); err != nil {
		return fmt.Errorf("unindex brand %s: %w", p.BrandName(), err)
	}
	if err := r.store.ZRem(ctx, r.createdKey(), id); err != nil {
		return fmt.Errorf("unindex created: %w", err)
	}
	return nil
}

// FetchByBrands returns all items of the given brands, in brand order then
// stable index order. Unknown brands contribute nothing.
func (r *Repo) FetchByBrands(ctx context.Context, brands []string) ([]product.Product, error) {
	var ids []string
	for _, brand := range brands {
		members, err := r.store.SMembers(ctx, r.brandKey(brand))
		if err != nil {
			return nil, fmt.Errorf("%w: brand index %s: %w", domain.ErrCatalogUnavailable, brand, err)
		}
		ids = append(ids, members...)
	}
	return r.fetchByIDs(ctx, ids)
}

// List returns one page of items ordered newest first, plus the total count.
func (r *Repo) List(ctx context.Context, page, limit int) ([]product.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	total, err := r.store.ZCard(ctx, r.createdKey())
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count: %w", domain.ErrCatalogUnavailable, err)
	}

	ids, err := r.store.ZRevRange(ctx, r.createdKey(), offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: page index: %w", domain.ErrCatalogUnavailable, err)
	}

	items, err := r.fetchByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *Repo) fetchByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productKey(id)
	}
	values, err := r.store.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("%w: mget: %w", domain.ErrCatalogUnavailable, err)
	}

	items := make([]product.Product, 0, len(values))
	for i, data := range values {
		if data == nil {
			// index entry with no backing value; skip rather than fail the fetch
			continue
		}
		p, err := parseProduct(ids[i], data)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

func (r *Repo) productKey(id string) string { return r.prefix + "product:" + id }
func (r *Repo) brandKey(brand string) string {
	return r.prefix + "idx:brand:" + brand
}
func (r *Repo) createdKey() string { return r.prefix + "idx:products:created" }

func parseProduct(id string, data []byte) (product.Product, error) {
	var dto productDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return product.Product{}, fmt.Errorf("unmarshal product %s: %w", id, err)
	}
	return fromDTO(id, &dto), nil
}
