package products

import (
	"github.com/elorielabs/elorie-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ListFilters narrows the public catalog listing.
type ListFilters struct {
	Category   string
	Search     string
	Trending   bool
	BestSeller bool
	Page       int
	Limit      int
}

func (f ListFilters) offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.limit()
}

func (f ListFilters) limit() int {
	if f.Limit < 1 {
		return 20
	}
	if f.Limit > 100 {
		return 100
	}
	return f.Limit
}

// CreateProductRequest is the admin payload for a new catalog item.
type CreateProductRequest struct {
	Name                string   `json:"name" validate:"required,max=200"`
	Description         string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	PricePaise          int      `json:"pricePaise" validate:"required,gt=0"`
	OriginalPricePaise  *int     `json:"originalPricePaise,omitempty" validate:"omitempty,gt=0"`
	Category            string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Material            string   `json:"material,omitempty" validate:"omitempty,max=100"`
	ImageURL            string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Images              []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	InStock             *bool    `json:"inStock,omitempty"`
	IsTrending          bool     `json:"isTrending,omitempty"`
	IsBestSeller        bool     `json:"isBestSeller,omitempty"`
	CODAvailable        *bool    `json:"codAvailable,omitempty"`
	ShippingChargePaise int      `json:"shippingChargePaise,omitempty" validate:"omitempty,gte=0"`
}

func (c CreateProductRequest) ToModel() *models.Product {
	inStock := true
	if c.InStock != nil {
		inStock = *c.InStock
	}
	return &models.Product{
		ID:                  uuid.New(),
		Name:                c.Name,
		Description:         c.Description,
		PricePaise:          c.PricePaise,
		OriginalPricePaise:  c.OriginalPricePaise,
		Category:            c.Category,
		Material:            c.Material,
		ImageURL:            c.ImageURL,
		Images:              pq.StringArray(c.Images),
		InStock:             inStock,
		IsTrending:          c.IsTrending,
		IsBestSeller:        c.IsBestSeller,
		CODAvailable:        c.CODAvailable,
		ShippingChargePaise: c.ShippingChargePaise,
	}
}

// UpdateProductRequest mutates an existing item. Nil pointers leave
// the field untouched; CODAvailable follows the tri-state convention.
type UpdateProductRequest struct {
	Name                *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Description         *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	PricePaise          *int     `json:"pricePaise,omitempty" validate:"omitempty,gt=0"`
	OriginalPricePaise  *int     `json:"originalPricePaise,omitempty" validate:"omitempty,gt=0"`
	Category            *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Material            *string  `json:"material,omitempty" validate:"omitempty,max=100"`
	ImageURL            *string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Images              []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	InStock             *bool    `json:"inStock,omitempty"`
	IsTrending          *bool    `json:"isTrending,omitempty"`
	IsBestSeller        *bool    `json:"isBestSeller,omitempty"`
	CODAvailable        *bool    `json:"codAvailable,omitempty"`
	ShippingChargePaise *int     `json:"shippingChargePaise,omitempty" validate:"omitempty,gte=0"`
}

func (u UpdateProductRequest) apply(p *models.Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.PricePaise != nil {
		p.PricePaise = *u.PricePaise
	}
	if u.OriginalPricePaise != nil {
		p.OriginalPricePaise = u.OriginalPricePaise
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Material != nil {
		p.Material = *u.Material
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.Images != nil {
		p.Images = pq.StringArray(u.Images)
	}
	if u.InStock != nil {
		p.InStock = *u.InStock
	}
	if u.IsTrending != nil {
		p.IsTrending = *u.IsTrending
	}
	if u.IsBestSeller != nil {
		p.IsBestSeller = *u.IsBestSeller
	}
	if u.CODAvailable != nil {
		p.CODAvailable = u.CODAvailable
	}
	if u.ShippingChargePaise != nil {
		p.ShippingChargePaise = *u.ShippingChargePaise
	}
}

// ListPage is the paged catalog response.
type ListPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
