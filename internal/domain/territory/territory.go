// Package territory defines distribution regions and per-brand availability.
package territory

import (
	"fmt"
	"sort"
	"strings"
)

// Territory is a geographic distribution region offered to searchers.
type Territory struct {
	code   string
	name   string
	region string
	active bool
}

// NewTerritory validates and creates a Territory. The code is uppercased.
func NewTerritory(code, name, region string, active bool) (Territory, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Territory{}, fmt.Errorf("territory code is required")
	}
	if name == "" {
		return Territory{}, fmt.Errorf("territory name is required")
	}
	return Territory{code: code, name: name, region: region, active: active}, nil
}

// ReconstructTerritory creates a Territory without validation (storage hydration).
func ReconstructTerritory(code, name, region string, active bool) Territory {
	return Territory{code: code, name: name, region: region, active: active}
}

// Code returns the territory code (uppercase).
func (t *Territory) Code() string { return t.code }

// Name returns the display name.
func (t *Territory) Name() string { return t.name }

// Region returns the optional grouping region.
func (t *Territory) Region() string { return t.region }

// Active reports whether the territory is offered to searchers.
func (t *Territory) Active() bool { return t.active }

// BrandConfig maps a brand to the set of territory codes its products are
// distributed in. Codes are uppercase and deduplicated.
type BrandConfig struct {
	brandName   string
	territories []string
}

// NewBrandConfig creates a BrandConfig, normalizing codes to uppercase and
// deduplicating while preserving first-occurrence order.
func NewBrandConfig(brandName string, codes []string) (BrandConfig, error) {
	if brandName == "" {
		return BrandConfig{}, fmt.Errorf("brand name is required")
	}
	return BrandConfig{brandName: brandName, territories: NormalizeCodes(codes)}, nil
}

// ReconstructBrandConfig creates a BrandConfig without normalization
// (storage hydration; stored codes are already normalized).
func ReconstructBrandConfig(brandName string, codes []string) BrandConfig {
	return BrandConfig{brandName: brandName, territories: codes}
}

// BrandName returns the brand this config belongs to.
func (c *BrandConfig) BrandName() string { return c.brandName }

// Territories returns the normalized territory codes.
func (c *BrandConfig) Territories() []string { return c.territories }

// Covers reports whether the brand distributes in the given territory code.
// The comparison is case-insensitive on the caller's side.
func (c *BrandConfig) Covers(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, t := range c.territories {
		if t == code {
			return true
		}
	}
	return false
}

// NormalizeCodes uppercases, trims and deduplicates territory codes,
// preserving first-occurrence order.
func NormalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// SortTerritories orders territories by region, then name.
func SortTerritories(ts []Territory) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].region != ts[j].region {
			return ts[i].region < ts[j].region
		}
		return ts[i].name < ts[j].name
	})
}
