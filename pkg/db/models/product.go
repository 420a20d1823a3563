package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a catalog item. Prices are stored in paise. CODAvailable
// is a tri-state: nil means the product has no COD restriction and is
// treated as eligible.
type Product struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name                string         `gorm:"column:name;not null" json:"name"`
	Description         string         `gorm:"column:description" json:"description,omitempty"`
	PricePaise          int            `gorm:"column:price_paise;not null" json:"pricePaise"`
	OriginalPricePaise  *int           `gorm:"column:original_price_paise" json:"originalPricePaise,omitempty"`
	Category            string         `gorm:"column:category;index" json:"category,omitempty"`
	Material            string         `gorm:"column:material" json:"material,omitempty"`
	ImageURL            string         `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Images              pq.StringArray `gorm:"column:images;type:text[]" json:"images,omitempty"`
	InStock             bool           `gorm:"column:in_stock;not null;default:true" json:"inStock"`
	IsTrending          bool           `gorm:"column:is_trending;not null;default:false" json:"isTrending"`
	IsBestSeller        bool           `gorm:"column:is_best_seller;not null;default:false" json:"isBestSeller"`
	Rating              float64        `gorm:"column:rating" json:"rating,omitempty"`
	ReviewCount         int            `gorm:"column:review_count" json:"reviewCount,omitempty"`
	CODAvailable        *bool          `gorm:"column:cod_available" json:"codAvailable,omitempty"`
	ShippingChargePaise int            `gorm:"column:shipping_charge_paise" json:"shippingChargePaise"`
	CreatedAt           time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt           time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

// CODEligible reports whether the product can be paid on delivery.
// Only an explicit false disqualifies it.
func (p *Product) CODEligible() bool {
	return p.CODAvailable == nil || *p.CODAvailable
}
