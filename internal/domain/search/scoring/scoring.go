// Package scoring computes the weighted relevance score between a catalog item
// and search criteria.
package scoring

import (
	"fmt"
	"strings"

	"github.com/gofedgroup/sourcing/internal/domain/criteria"
	"github.com/gofedgroup/sourcing/internal/domain/product"
)

// Weights is the per-category weight table for relevance scoring.
// Two schemes have been used historically for this catalog: 0.40/0.40/0.20
// (no performance term) and 0.35/0.35/0.20/0.10. The default is the latter;
// the former stays reachable through configuration.
type Weights struct {
	Keywords     float64
	ColorPalette float64
	Application  float64
	Performance  float64
}

// DefaultWeights returns the canonical weight scheme.
func DefaultWeights() Weights {
	return Weights{
		Keywords:     0.35,
		ColorPalette: 0.35,
		Application:  0.20,
		Performance:  0.10,
	}
}

// Validate checks that all weights are non-negative and sum to at most 1,
// so that scores stay in [0,1].
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"keywords":     w.Keywords,
		"colorPalette": w.ColorPalette,
		"application":  w.Application,
		"performance":  w.Performance,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %v", name, v)
		}
	}
	if sum := w.Keywords + w.ColorPalette + w.Application + w.Performance; sum > 1.0+1e-9 {
		return fmt.Errorf("weights must sum to at most 1.0, got %v", sum)
	}
	return nil
}

// Score computes the weighted relevance of a product against criteria.
//
// Keyword and color terms are the fraction of criteria values matched
// (case-insensitive exact), scaled by their weight. Application and
// performance terms are binary: full weight if the product's free-text field
// contains any criteria value as a case-insensitive substring.
//
// Missing fields on either side contribute zero; the result is never
// renormalized, so a product lacking optional fields simply forfeits that
// weight share. The result is always in [0,1] for valid weights.
func Score(p *product.Product, c *criteria.Criteria, w Weights) float64 {
	score := 0.0

	if n := len(c.Keywords()); n > 0 && len(p.Keywords()) > 0 {
		score += overlapFraction(p.Keywords(), c.Keywords()) * w.Keywords
	}

	if n := len(c.ColorPalette()); n > 0 && len(p.ColorPalette()) > 0 {
		score += overlapFraction(p.ColorPalette(), c.ColorPalette()) * w.ColorPalette
	}

	if fieldContainsAny(p.Application(), c.Application()) {
		score += w.Application
	}

	if fieldContainsAny(p.Performance(), c.Performance()) {
		score += w.Performance
	}

	return score
}

// overlapFraction returns |productValues ∩ criteriaValues| / |criteriaValues|
// with case-insensitive comparison. Capped at 1 in case the product repeats tags.
func overlapFraction(productValues, criteriaValues []string) float64 {
	wanted := make(map[string]struct{}, len(criteriaValues))
	for _, v := range criteriaValues {
		wanted[strings.ToLower(v)] = struct{}{}
	}
	matches := 0
	for _, v := range productValues {
		if _, ok := wanted[strings.ToLower(v)]; ok {
			matches++
		}
	}
	frac := float64(matches) / float64(len(criteriaValues))
	if frac > 1 {
		frac = 1
	}
	return frac
}

func fieldContainsAny(field string, terms []string) bool {
	if field == "" || len(terms) == 0 {
		return false
	}
	lower := strings.ToLower(field)
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
