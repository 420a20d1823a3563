package payment

import "github.com/google/uuid"

// CreateOrderRequest asks the gateway for a checkout order. Amount is
// the client's belief in paise; it must match the stored total exactly.
type CreateOrderRequest struct {
	OrderID     uuid.UUID `json:"orderId" validate:"required"`
	AmountPaise int       `json:"amount" validate:"required,gt=0"`
}

// CreateOrderResponse carries everything the hosted checkout UI needs
// to open. The key id is public; the secret never leaves the server.
type CreateOrderResponse struct {
	KeyID           string `json:"keyId"`
	AmountPaise     int    `json:"amount"`
	Currency        string `json:"currency"`
	RazorpayOrderID string `json:"razorpayOrderId"`
}

// VerifyRequest is the post-checkout handback from the gateway UI.
type VerifyRequest struct {
	OrderID           uuid.UUID `json:"orderId" validate:"required"`
	RazorpayOrderID   string    `json:"razorpayOrderId" validate:"required"`
	RazorpayPaymentID string    `json:"razorpayPaymentId" validate:"required"`
	RazorpaySignature string    `json:"razorpaySignature" validate:"required"`
}

// VerifyResponse confirms the order the payment settled.
type VerifyResponse struct {
	OrderID uuid.UUID `json:"orderId"`
	Status  string    `json:"status"`
}
