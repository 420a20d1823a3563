package enums

import "fmt"

// OrderStatus tracks an order through its forward-only lifecycle.
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pendingPayment"
	OrderStatusPlaced         OrderStatus = "orderPlaced"
	OrderStatusConfirmed      OrderStatus = "orderConfirmed"
	OrderStatusDispatched     OrderStatus = "orderDispatched"
	OrderStatusDelivered      OrderStatus = "orderDelivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendingPayment,
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusDispatched,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered || o == OrderStatusCancelled
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
