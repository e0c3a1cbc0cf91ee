// Package filter turns search criteria into a catalog filter predicate.
//
// The predicate is intentionally permissive: a single disjunction (OR) across
// all criteria categories. Precision comes from the relevance scorer
// downstream, not from the filter.
package filter

import (
	"strings"

	"github.com/gofedgroup/sourcing/internal/domain/criteria"
	"github.com/gofedgroup/sourcing/internal/domain/product"
)

// Filter is a disjunctive match predicate over catalog items.
// The zero value matches everything.
type Filter struct {
	keywords    map[string]struct{} // lowercased, exact membership
	colors      map[string]struct{} // lowercased, exact membership
	application []string            // lowercased, substring containment
	performance []string            // lowercased, substring containment
}

// Build composes a Filter from criteria. Keyword and color matching is
// case-insensitive exact membership; application and performance matching is
// case-insensitive substring containment. Empty criteria produce a match-all
// filter.
func Build(c *criteria.Criteria) Filter {
	return Filter{
		keywords:    lowerSet(c.Keywords()),
		colors:      lowerSet(c.ColorPalette()),
		application: lowerAll(c.Application()),
		performance: lowerAll(c.Performance()),
	}
}

// IsMatchAll reports whether the filter has no conditions.
func (f *Filter) IsMatchAll() bool {
	return len(f.keywords) == 0 && len(f.colors) == 0 &&
		len(f.application) == 0 && len(f.performance) == 0
}

// Matches reports whether the product satisfies any condition of the filter.
func (f *Filter) Matches(p *product.Product) bool {
	if f.IsMatchAll() {
		return true
	}
	if intersects(p.Keywords(), f.keywords) {
		return true
	}
	if intersects(p.ColorPalette(), f.colors) {
		return true
	}
	if containsAny(p.Application(), f.application) {
		return true
	}
	if containsAny(p.Performance(), f.performance) {
		return true
	}
	return false
}

func intersects(values []string, set map[string]struct{}) bool {
	if len(set) == 0 {
		return false
	}
	for _, v := range values {
		if _, ok := set[strings.ToLower(v)]; ok {
			return true
		}
	}
	return false
}

func containsAny(field string, terms []string) bool {
	if field == "" || len(terms) == 0 {
		return false
	}
	lower := strings.ToLower(field)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func lowerSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func lowerAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
