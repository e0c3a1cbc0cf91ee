package catalog

import (
	"time"

	"github.com/gofedgroup/sourcing/internal/domain/product"
)

// productDTO is the stored JSON shape of a catalog item. Field names follow
// the catalog's historical document schema.
type productDTO struct {
	ProductName          string   `json:"productName"`
	ColorwayName         string   `json:"colorwayName,omitempty"`
	BrandName            string   `json:"brandName"`
	ImageURL             string   `json:"imageUrl,omitempty"`
	ShortDescription     string   `json:"shortDescription,omitempty"`
	Application          string   `json:"application,omitempty"`
	Keywords             []string `json:"keywords,omitempty"`
	ColorPalette         []string `json:"colorPalette,omitempty"`
	Performance          string   `json:"performance,omitempty"`
	SpecSheetLink        string   `json:"specSheetLink,omitempty"`
	ProductURL           string   `json:"productUrl,omitempty"`
	DesignerNote         string   `json:"designerNote,omitempty"`
	AvailableTerritories []string `json:"availableTerritories,omitempty"`
	CreatedAt            string   `json:"createdAt"`
}

func toDTO(p *product.Product) *productDTO {
	return &productDTO{
		ProductName:          p.ProductName(),
		ColorwayName:         p.ColorwayName(),
		BrandName:            p.BrandName(),
		ImageURL:             p.ImageURL(),
		ShortDescription:     p.ShortDescription(),
		Application:          p.Application(),
		Keywords:             p.Keywords(),
		ColorPalette:         p.ColorPalette(),
		Performance:          p.Performance(),
		SpecSheetLink:        p.SpecSheetLink(),
		ProductURL:           p.ProductURL(),
		DesignerNote:         p.DesignerNote(),
		AvailableTerritories: p.AvailableTerritories(),
		CreatedAt:            p.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
}

func fromDTO(id string, dto *productDTO) product.Product {
	createdAt, _ := time.Parse(time.RFC3339Nano, dto.CreatedAt)
	return product.Reconstruct(product.Fields{
		ID:                   id,
		ProductName:          dto.ProductName,
		ColorwayName:         dto.ColorwayName,
		BrandName:            dto.BrandName,
		ImageURL:             dto.ImageURL,
		ShortDescription:     dto.ShortDescription,
		Application:          dto.Application,
		Keywords:             dto.Keywords,
		ColorPalette:         dto.ColorPalette,
		Performance:          dto.Performance,
		SpecSheetLink:        dto.SpecSheetLink,
		ProductURL:           dto.ProductURL,
		DesignerNote:         dto.DesignerNote,
		AvailableTerritories: dto.AvailableTerritories,
		CreatedAt:            createdAt,
	})
}
