// Package result defines scored search results and their grouping.
package result

import "github.com/gofedgroup/sourcing/internal/domain/product"

// ScoredProduct is a catalog item augmented with a relevance score in [0,1].
// Ephemeral: produced per request, never persisted.
type ScoredProduct struct {
	product product.Product
	score   float64
}

// New creates a scored result.
func New(p product.Product, score float64) ScoredProduct {
	return ScoredProduct{product: p, score: score}
}

// Product returns the underlying catalog item.
func (s *ScoredProduct) Product() *product.Product { return &s.product }

// Score returns the relevance score.
func (s *ScoredProduct) Score() float64 { return s.score }

// BrandGroup is a brand's bucket of an ordered result list.
type BrandGroup struct {
	Brand    string
	Products []ScoredProduct
}

// GroupByBrand buckets an ordered result list by brand name. Brands appear in
// order of their best-ranked product; the relative order of results within
// each bucket is preserved.
func GroupByBrand(results []ScoredProduct) []BrandGroup {
	index := make(map[string]int)
	groups := make([]BrandGroup, 0)
	for _, r := range results {
		brand := r.Product().BrandName()
		i, ok := index[brand]
		if !ok {
			i = len(groups)
			index[brand] = i
			groups = append(groups, BrandGroup{Brand: brand})
		}
		groups[i].Products = append(groups[i].Products, r)
	}
	return groups
}
