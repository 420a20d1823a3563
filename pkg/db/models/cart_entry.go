package models

import (
	"time"

	"github.com/google/uuid"
)

// CartEntry is one product line in a user's server-side cart. The
// (user_id, product_id) pair is unique; quantity changes update the
// existing row.
type CartEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"userId"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"productId"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (CartEntry) TableName() string { return "cart_entries" }
