// Package territory persists territory definitions and per-brand
// availability configuration.
package territory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofedgroup/sourcing/internal/db"
	domterr "github.com/gofedgroup/sourcing/internal/domain/territory"
)

// DefaultKeyPrefix namespaces all territory keys.
const DefaultKeyPrefix = "sourcing:"

// store is the consumer interface for territory persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGet(ctx context.Context, key, field string) ([]byte, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
}

// Repo stores brand→territory configs and territory definitions, each as a
// single hash: one field per brand (or territory code). The whole config set
// is small and read on every search, so a single HGETALL is the fetch path.
type Repo struct {
	store  store
	prefix string
}

// New creates a territory repository.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// territoryDTO is the stored JSON shape of a territory definition.
type territoryDTO struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
	Active bool   `json:"active"`
}

// UpsertBrandConfig stores a brand's territory set. Last write wins.
func (r *Repo) UpsertBrandConfig(ctx context.Context, cfg *domterr.BrandConfig) error {
	data, err := json.Marshal(cfg.Territories())
	if err != nil {
		return fmt.Errorf("marshal territories for %s: %w", cfg.BrandName(), err)
	}
	if err := r.store.HSet(ctx, r.brandsKey(), map[string]string{cfg.BrandName(): string(data)}); err != nil {
		return fmt.Errorf("hset brand config %s: %w", cfg.BrandName(), err)
	}
	return nil
}

// GetBrandConfig returns a brand's territory config.
// A brand with no config yields (config, false, nil).
func (r *Repo) GetBrandConfig(ctx context.Context, brandName string) (domterr.BrandConfig, bool, error) {
	data, err := r.store.HGet(ctx, r.brandsKey(), brandName)
	if err != nil {
		if errors.Is(err, db.ErrFieldNotFound) {
			return domterr.BrandConfig{}, false, nil
		}
		return domterr.BrandConfig{}, false, fmt.Errorf("hget brand config %s: %w", brandName, err)
	}
	cfg, err := parseBrandConfig(brandName, string(data))
	if err != nil {
		return domterr.BrandConfig{}, false, err
	}
	return cfg, true, nil
}

// AllBrandConfigs returns every configured brand's territory set.
func (r *Repo) AllBrandConfigs(ctx context.Context) ([]domterr.BrandConfig, error) {
	fields, err := r.store.HGetAll(ctx, r.brandsKey())
	if err != nil {
		return nil, fmt.Errorf("hgetall brand configs: %w", err)
	}
	configs := make([]domterr.BrandConfig, 0, len(fields))
	for brand, raw := range fields {
		cfg, err := parseBrandConfig(brand, raw)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// DeleteBrandConfig removes a brand's territory config.
func (r *Repo) DeleteBrandConfig(ctx context.Context, brandName string) error {
	if err := r.store.HDel(ctx, r.brandsKey(), brandName); err != nil {
		return fmt.Errorf("hdel brand config %s: %w", brandName, err)
	}
	return nil
}

// UpsertTerritory stores a territory definition.
func (r *Repo) UpsertTerritory(ctx context.Context, t *domterr.Territory) error {
	data, err := json.Marshal(territoryDTO{
		Code:   t.Code(),
		Name:   t.Name(),
		Region: t.Region(),
		Active: t.Active(),
	})
	if err != nil {
		return fmt.Errorf("marshal territory %s: %w", t.Code(), err)
	}
	if err := r.store.HSet(ctx, r.territoriesKey(), map[string]string{t.Code(): string(data)}); err != nil {
		return fmt.Errorf("hset territory %s: %w", t.Code(), err)
	}
	return nil
}

// AllTerritories returns every territory definition, unordered.
func (r *Repo) AllTerritories(ctx context.Context) ([]domterr.Territory, error) {
	fields, err := r.store.HGetAll(ctx, r.territoriesKey())
	if err != nil {
		return nil, fmt.Errorf("hgetall territories: %w", err)
	}
	out := make([]domterr.Territory, 0, len(fields))
	for code, raw := range fields {
		var dto territoryDTO
		if err := json.Unmarshal([]byte(raw), &dto); err != nil {
			return nil, fmt.Errorf("unmarshal territory %s: %w", code, err)
		}
		out = append(out, domterr.ReconstructTerritory(dto.Code, dto.Name, dto.Region, dto.Active))
	}
	return out, nil
}

func (r *Repo) brandsKey() string      { return r.prefix + "territory:brands" }
func (r *Repo) territoriesKey() string { return r.prefix + "territories" }

func parseBrandConfig(brand, raw string) (domterr.BrandConfig, error) {
	var codes []string
	if err := json.Unmarshal([]byte(raw), &codes); err != nil {
		return domterr.BrandConfig{}, fmt.Errorf("unmarshal brand config %s: %w", brand, err)
	}
	return domterr.ReconstructBrandConfig(brand, codes), nil
}
