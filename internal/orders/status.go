package orders

import "github.com/elorielabs/elorie-backend/pkg/enums"

// orderFlow is the single forward path an order moves along. Cancelled
// sits outside the flow and is reachable from pendingPayment only.
var orderFlow = []enums.OrderStatus{
	enums.OrderStatusPendingPayment,
	enums.OrderStatusPlaced,
	enums.OrderStatusConfirmed,
	enums.OrderStatusDispatched,
	enums.OrderStatusDelivered,
}

// NextStatus returns the only status an order may advance to, or
// false when the order is terminal or off the forward path.
func NextStatus(current enums.OrderStatus) (enums.OrderStatus, bool) {
	for i, status := range orderFlow {
		if status != current {
			continue
		}
		if i+1 >= len(orderFlow) {
			return "", false
		}
		return orderFlow[i+1], true
	}
	return "", false
}

// CanCancel reports whether the order may still be cancelled by the
// customer. Once payment succeeds or COD placement lands, it cannot.
func CanCancel(current enums.OrderStatus) bool {
	return current == enums.OrderStatusPendingPayment
}
