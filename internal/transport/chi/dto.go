package chi

import (
	"time"

	domcrit "github.com/gofedgroup/sourcing/internal/domain/criteria"
	"github.com/gofedgroup/sourcing/internal/domain/product"
	"github.com/gofedgroup/sourcing/internal/domain/search/result"
	domterr "github.com/gofedgroup/sourcing/internal/domain/territory"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type criteriaResponse struct {
	Keywords     []string `json:"keywords"`
	ColorPalette []string `json:"colorPalette"`
	Application  []string `json:"application"`
	Performance  []string `json:"performance,omitempty"`
}

type scoredProductResponse struct {
	ID                   string   `json:"id"`
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
	Score                float64  `json:"score"`
}

type brandGroupResponse struct {
	BrandName string                  `json:"brandName"`
	Products  []scoredProductResponse `json:"products"`
}

type searchResponse struct {
	CriteriaID      string                  `json:"criteriaId"`
	Criteria        criteriaResponse        `json:"criteria"`
	ImageURL        string                  `json:"imageUrl,omitempty"`
	Total           int                     `json:"total"`
	Products        []scoredProductResponse `json:"products"`
	GroupedProducts []brandGroupResponse    `json:"groupedProducts"`
}

type territoryResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

type brandConfigResponse struct {
	BrandName   string   `json:"brandName"`
	Territories []string `json:"territories"`
}

type productRequest struct {
	ProductName          string   `json:"productName"`
	ColorwayName         string   `json:"colorwayName"`
	BrandName            string   `json:"brandName"`
	ImageURL             string   `json:"imageUrl"`
	ShortDescription     string   `json:"shortDescription"`
	Application          string   `json:"application"`
	Keywords             []string `json:"keywords"`
	ColorPalette         []string `json:"colorPalette"`
	Performance          string   `json:"performance"`
	SpecSheetLink        string   `json:"specSheetLink"`
	ProductURL           string   `json:"productUrl"`
	DesignerNote         string   `json:"designerNote"`
	AvailableTerritories []string `json:"availableTerritories"`
}

type productResponse struct {
	ID                   string    `json:"id"`
	ProductName          string    `json:"productName"`
	ColorwayName         string    `json:"colorwayName,omitempty"`
	BrandName            string    `json:"brandName"`
	ImageURL             string    `json:"imageUrl,omitempty"`
	ShortDescription     string    `json:"shortDescription,omitempty"`
	Application          string    `json:"application,omitempty"`
	Keywords             []string  `json:"keywords,omitempty"`
	ColorPalette         []string  `json:"colorPalette,omitempty"`
	Performance          string    `json:"performance,omitempty"`
	SpecSheetLink        string    `json:"specSheetLink,omitempty"`
	ProductURL           string    `json:"productUrl,omitempty"`
	DesignerNote         string    `json:"designerNote,omitempty"`
	AvailableTerritories []string  `json:"availableTerritories,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

type productListResponse struct {
	Products []productResponse `json:"products"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Total    int               `json:"total"`
	Pages    int               `json:"pages"`
}

type setTerritoriesRequest struct {
	Territories []string `json:"territories"`
}

type upsertTerritoryRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"`
	Active *bool  `json:"active"`
}

type syncResponse struct {
	Updated int `json:"updated"`
}

func criteriaToResponse(c *domcrit.Criteria) criteriaResponse {
	return criteriaResponse{
		Keywords:     c.Keywords(),
		ColorPalette: c.ColorPalette(),
		Application:  c.Application(),
		Performance:  c.Performance(),
	}
}

func rankedToResponse(ranked []result.ScoredProduct) []scoredProductResponse {
	out := make([]scoredProductResponse, len(ranked))
	for i := range ranked {
		out[i] = scoredToResponse(&ranked[i])
	}
	return out
}

func groupsToResponse(groups []result.BrandGroup) []brandGroupResponse {
	out := make([]brandGroupResponse, len(groups))
	for i, g := range groups {
		products := make([]scoredProductResponse, len(g.Products))
		for j := range g.Products {
			products[j] = scoredToResponse(&g.Products[j])
		}
		out[i] = brandGroupResponse{BrandName: g.Brand, Products: products}
	}
	return out
}

func scoredToResponse(sp *result.ScoredProduct) scoredProductResponse {
	p := sp.Product()
	return scoredProductResponse{
		ID:                   p.ID(),
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
		Score:                sp.Score(),
	}
}

func productToResponse(p *product.Product) productResponse {
	return productResponse{
		ID:                   p.ID(),
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
		CreatedAt:            p.CreatedAt(),
	}
}

func fieldsFromRequest(req productRequest) product.Fields {
	return product.Fields{
		ProductName:          req.ProductName,
		ColorwayName:         req.ColorwayName,
		BrandName:            req.BrandName,
		ImageURL:             req.ImageURL,
		ShortDescription:     req.ShortDescription,
		Application:          req.Application,
		Keywords:             req.Keywords,
		ColorPalette:         req.ColorPalette,
		Performance:          req.Performance,
		SpecSheetLink:        req.SpecSheetLink,
		ProductURL:           req.ProductURL,
		DesignerNote:         req.DesignerNote,
		AvailableTerritories: req.AvailableTerritories,
	}
}

func territoryToResponse(t *domterr.Territory) territoryResponse {
	return territoryResponse{
		Code:   t.Code(),
		Name:   t.Name(),
		Region: t.Region(),
	}
}
