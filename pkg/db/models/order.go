package models

import (
	"time"

	"github.com/elorielabs/elorie-backend/pkg/enums"
	"github.com/elorielabs/elorie-backend/pkg/types"
	"github.com/google/uuid"
)

// Order is a placed order with its money fields frozen at checkout
// time. Amounts are in paise. The shipping address is snapshotted as
// jsonb so later profile edits never rewrite order history.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	Status            enums.OrderStatus `gorm:"column:status;not null" json:"status"`
	PaymentMode       enums.PaymentMode `gorm:"column:payment_mode;not null" json:"paymentMode"`
	SubtotalPaise     int               `gorm:"column:subtotal_paise;not null" json:"subtotalPaise"`
	ShippingPaise     int               `gorm:"column:shipping_paise;not null" json:"shippingPaise"`
	TotalPaise        int               `gorm:"column:total_paise;not null" json:"totalPaise"`
	ShippingAddress   types.Address     `gorm:"column:shipping_address;serializer:json" json:"shippingAddress"`
	TrackingNumber    *string           `gorm:"column:tracking_number" json:"trackingNumber,omitempty"`
	RazorpayOrderID   *string           `gorm:"column:razorpay_order_id;index" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID *string           `gorm:"column:razorpay_payment_id" json:"razorpayPaymentId,omitempty"`
	Items             []OrderItem       `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt         time.Time         `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt         time.Time         `gorm:"column:updated_at" json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is a frozen product line on an order. Name and unit price
// are copied from the product at placement time.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index" json:"orderId"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null" json:"productId"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	ImageURL       string    `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Quantity       int       `gorm:"column:quantity;not null" json:"quantity"`
	UnitPricePaise int       `gorm:"column:unit_price_paise;not null" json:"unitPricePaise"`
	CODAvailable   bool      `gorm:"column:cod_available;not null;default:true" json:"codAvailable"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (OrderItem) TableName() string { return "order_items" }
