package orders

import (
	"github.com/elorielabs/elorie-backend/pkg/db/models"
	"github.com/elorielabs/elorie-backend/pkg/enums"
	"github.com/elorielabs/elorie-backend/pkg/types"
)

// PlaceOrderRequest submits checkout. The shipping address is the one
// the customer confirmed at review time, already resolved to concrete
// fields; totals are never accepted from the client.
type PlaceOrderRequest struct {
	PaymentMode     enums.PaymentMode `json:"paymentMode" validate:"required"`
	ShippingAddress types.Address     `json:"shippingAddress" validate:"required"`
}

// ListFilters narrows the admin order listing.
type ListFilters struct {
	Status enums.OrderStatus
	Page   int
	Limit  int
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

// ListPage is the paged admin order response.
type ListPage struct {
	Items []models.Order `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// UpdateStatusRequest advances an order by exactly one step.
type UpdateStatusRequest struct {
	Status enums.OrderStatus `json:"status" validate:"required"`
}

// UpdateTrackingRequest attaches a carrier tracking number.
type UpdateTrackingRequest struct {
	TrackingNumber string `json:"trackingNumber" validate:"required,max=64"`
}
