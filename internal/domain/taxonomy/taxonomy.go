// Package taxonomy holds the closed vocabularies that every extracted search
// criterion must be drawn from. The lists are the product database's controlled
// attribute sets; values are matched verbatim (case-sensitive) and never
// combined or derived.
package taxonomy

import "strings"

// Category identifies one of the four controlled vocabularies.
type Category string

// Vocabulary categories.
const (
	CategoryKeyword     Category = "keywords"
	CategoryColor       Category = "colorPalette"
	CategoryPerformance Category = "performance"
	CategoryApplication Category = "application"
)

var keywords = []string{
	"Modern",
	"Traditional",
	"Transitional",
	"Eclectic",
	"Minimal",
	"Textural",
	"Industrial",
	"Glam",
	"Luxe",
	"Boho",
	"Mid Century Modern",
	"Scandinavian",
	"Biophillic",
	"Art Deco",
	"Japandi",
	"Organic",
	"Romantic",
	"Timeless",
	"Formal",
	"Velvet",
	"Dark",
	"Light",
	"Bold",
	"Luxury",
	"Sophisticated",
	"Serene",
	"Warm",
	"Rustic",
	"Farmhouse",
	"Coastal",
	"Classic",
}

var colors = []string{
	"Neutral",
	"Beige",
	"Ivory",
	"Cream",
	"White",
	"Off-white",
	"Gray",
	"Grey",
	"Brown",
	"Green",
	"Terracotta",
	"Olive",
	"Ochre",
	"Burgundy",
	"Yellow",
	"Pink",
	"Red",
	"Blue",
	"Turquoise",
	"Black",
	"Multi",
	"Earth Tones",
	"Metallic",
	"Gold",
	"Copper",
	"Bronze",
	"Brass",
	"Silver",
}

var performance = []string{
	"Scrubbable",
	"Anti-microbial",
	"Stain Treatment",
	"Moisture Barrier",
	"Sustainable",
	"Outdoor",
	"Easy Clean",
	"Bleach Cleanable",
	"Maritime",
}

var applications = []string{
	"Wallcovering",
	"Carpet",
	"Drapery",
	"Outdoor",
	"Acoustic",
	"Rug",
	"Interior Film",
	"Window Film",
	"Mural",
	"Special Finish",
}

// Taxonomy is an immutable set of closed vocabularies.
type Taxonomy struct {
	lists   map[Category][]string
	members map[Category]map[string]struct{}
}

// Default returns the product taxonomy.
func Default() Taxonomy {
	return build(map[Category][]string{
		CategoryKeyword:     keywords,
		CategoryColor:       colors,
		CategoryPerformance: performance,
		CategoryApplication: applications,
	})
}

func build(lists map[Category][]string) Taxonomy {
	members := make(map[Category]map[string]struct{}, len(lists))
	for cat, vals := range lists {
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		members[cat] = set
	}
	return Taxonomy{lists: lists, members: members}
}

// Contains reports whether value is an exact, case-sensitive member of the category.
func (t Taxonomy) Contains(cat Category, value string) bool {
	_, ok := t.members[cat][value]
	return ok
}

// Values returns the vocabulary for a category in declaration order.
// The returned slice is a copy.
func (t Taxonomy) Values(cat Category) []string {
	src := t.lists[cat]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// PromptList renders a category's vocabulary as a newline-joined list for
// embedding into the extraction system prompt.
func (t Taxonomy) PromptList(cat Category) string {
	return strings.Join(t.lists[cat], "\n")
}
