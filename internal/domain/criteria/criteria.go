// Package criteria defines the normalized, taxonomy-constrained description of
// what a search is looking for.
package criteria

import "strings"

// Criteria is the normalized search criteria produced per request
// (immutable value object). Arrays are semantic sets: order from the
// extraction model is preserved for display but irrelevant for matching.
type Criteria struct {
	keywords     []string
	colorPalette []string
	application  []string
	performance  []string
}

// New creates a Criteria. Nil slices are kept as empty.
func New(keywords, colorPalette, application, performance []string) Criteria {
	return Criteria{
		keywords:     cloneStrings(keywords),
		colorPalette: cloneStrings(colorPalette),
		application:  cloneStrings(application),
		performance:  cloneStrings(performance),
	}
}

// Keywords returns the style keywords.
func (c *Criteria) Keywords() []string { return c.keywords }

// ColorPalette returns the color palette values.
func (c *Criteria) ColorPalette() []string { return c.colorPalette }

// Application returns the application values.
func (c *Criteria) Application() []string { return c.application }

// Performance returns the performance tags.
func (c *Criteria) Performance() []string { return c.performance }

// IsEmpty reports whether no category carries any value.
func (c *Criteria) IsEmpty() bool {
	return len(c.keywords) == 0 && len(c.colorPalette) == 0 &&
		len(c.application) == 0 && len(c.performance) == 0
}

// MergeKeywords returns a copy whose keyword set is the union of the existing
// keywords and extra, deduplicated case-insensitively with the casing of the
// first occurrence preserved. Colors, application and performance are untouched.
func (c *Criteria) MergeKeywords(extra []string) Criteria {
	merged := make([]string, 0, len(c.keywords)+len(extra))
	seen := make(map[string]struct{}, len(c.keywords)+len(extra))
	for _, lists := range [][]string{c.keywords, extra} {
		for _, k := range lists {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			lower := strings.ToLower(k)
			if _, ok := seen[lower]; ok {
				continue
			}
			seen[lower] = struct{}{}
			merged = append(merged, k)
		}
	}
	return Criteria{
		keywords:     merged,
		colorPalette: c.colorPalette,
		application:  c.application,
		performance:  c.performance,
	}
}

// NormalizeKeywordInput splits a raw comma-separated keyword string into a
// trimmed, deduplicated list (case-insensitive dedup, first casing wins).
func NormalizeKeywordInput(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lower := strings.ToLower(p)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, p)
	}
	return out
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
