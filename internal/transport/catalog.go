package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/sucrestore/internal/models"
)

type CreateProductRequest struct {
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	ShortDescription string           `json:"shortDescription"`
	Description      string           `json:"description"`
	VolumeWeight     string           `json:"volumeWeight"`
	Price            decimal.Decimal  `json:"price"`
	OldPrice         *decimal.Decimal `json:"oldPrice"`
	Stock            int              `json:"stock"`
	MainImage        string           `json:"mainImage"`
	CategoryID       *uint            `json:"categoryId"`
	CategoryName     string           `json:"categoryName"`
	Active           *bool            `json:"active"`
}

type PatchProductRequest struct {
	Name             *string          `json:"name"`
	Slug             *string          `json:"slug"`
	ShortDescription *string          `json:"shortDescription"`
	Description      *string          `json:"description"`
	VolumeWeight     *string          `json:"volumeWeight"`
	Price            *decimal.Decimal `json:"price"`
	OldPrice         *decimal.Decimal `json:"oldPrice"`
	Stock            *int             `json:"stock"`
	MainImage        *string          `json:"mainImage"`
	CategoryID       *uint            `json:"categoryId"`
	CategoryName     *string          `json:"categoryName"`
	Active           *bool            `json:"active"`
}

type ProductResponse struct {
	ID               uint             `json:"id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	ShortDescription string           `json:"shortDescription"`
	Description      string           `json:"description"`
	VolumeWeight     string           `json:"volumeWeight"`
	Price            decimal.Decimal  `json:"price"`
	OldPrice         *decimal.Decimal `json:"oldPrice"`
	MainImage        string           `json:"mainImage"`
	CategoryID       *uint            `json:"categoryId"`
	CategoryName     string           `json:"categoryName"`
	CategorySlug     string           `json:"categorySlug"`
	Stock            int              `json:"stock"`
	Available        bool             `json:"available"`
	Active           bool             `json:"active"`
	ExternalID       *string          `json:"externalId,omitempty"`
}

func NewProductResponse(p models.Product) ProductResponse {
	r := ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		VolumeWeight:     p.VolumeWeight,
		Price:            p.Price,
		MainImage:        p.MainImage,
		CategoryID:       p.CategoryID,
		Stock:            p.Stock,
		Available:        p.Stock > 0,
		Active:           p.Active,
		ExternalID:       p.ExternalID,
	}
	if p.OldPrice.Valid {
		old := p.OldPrice.Decimal
		r.OldPrice = &old
	}
	if p.Category != nil {
		r.CategoryName = p.Category.Name
		r.CategorySlug = p.Category.Slug
	}
	return r
}

func NewProductResponses(items []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, NewProductResponse(p))
	}
	return out
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type PatchCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	Active      *bool   `json:"active"`
}
