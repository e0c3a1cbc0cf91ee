// Package product defines the catalog item aggregate.
package product

import (
	"fmt"
	"time"
)

// Fields carries the raw attribute set of a catalog item, used for
// construction and storage hydration.
type Fields struct {
	ID                   string
	ProductName          string
	ColorwayName         string
	BrandName            string
	ImageURL             string
	ShortDescription     string
	Application          string
	Keywords             []string
	ColorPalette         []string
	Performance          string
	SpecSheetLink        string
	ProductURL           string
	DesignerNote         string
	AvailableTerritories []string
	CreatedAt            time.Time
}

// Product is a sourceable catalog item (immutable value object).
// Keyword, color, application and performance fields carry the brand's own
// uncontrolled vocabulary — casing may differ from the taxonomy.
type Product struct {
	f Fields
}

// New validates and creates a Product. CreatedAt defaults to now.
func New(f Fields) (Product, error) {
	if f.ID == "" {
		return Product{}, fmt.Errorf("product ID is required")
	}
	if f.ProductName == "" {
		return Product{}, fmt.Errorf("product name is required")
	}
	if f.BrandName == "" {
		return Product{}, fmt.Errorf("brand name is required")
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	return Product{f: f}, nil
}

// Reconstruct creates a Product without validation (storage hydration).
func Reconstruct(f Fields) Product {
	return Product{f: f}
}

// ID returns the product identifier.
func (p *Product) ID() string { return p.f.ID }

// ProductName returns the display name.
func (p *Product) ProductName() string { return p.f.ProductName }

// ColorwayName returns the colorway variant name.
func (p *Product) ColorwayName() string { return p.f.ColorwayName }

// BrandName returns the owning brand.
func (p *Product) BrandName() string { return p.f.BrandName }

// ImageURL returns the product image URL.
func (p *Product) ImageURL() string { return p.f.ImageURL }

// ShortDescription returns the marketing description.
func (p *Product) ShortDescription() string { return p.f.ShortDescription }

// Application returns the free-text application field.
func (p *Product) Application() string { return p.f.Application }

// Keywords returns the brand-supplied keyword tags.
func (p *Product) Keywords() []string { return p.f.Keywords }

// ColorPalette returns the brand-supplied color tags.
func (p *Product) ColorPalette() []string { return p.f.ColorPalette }

// Performance returns the free-text performance field.
func (p *Product) Performance() string { return p.f.Performance }

// SpecSheetLink returns the spec sheet URL.
func (p *Product) SpecSheetLink() string { return p.f.SpecSheetLink }

// ProductURL returns the brand's product page URL.
func (p *Product) ProductURL() string { return p.f.ProductURL }

// DesignerNote returns the designer note.
func (p *Product) DesignerNote() string { return p.f.DesignerNote }

// AvailableTerritories returns the denormalized territory cache.
func (p *Product) AvailableTerritories() []string { return p.f.AvailableTerritories }

// CreatedAt returns the creation timestamp.
func (p *Product) CreatedAt() time.Time { return p.f.CreatedAt }

// Fields returns a copy of the raw attribute set.
func (p *Product) Fields() Fields { return p.f }

// WithTerritories returns a copy with the denormalized territory cache replaced.
func (p *Product) WithTerritories(codes []string) Product {
	cp := p.f
	cp.AvailableTerritories = codes
	return Product{f: cp}
}
