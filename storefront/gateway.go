package storefront

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// CheckoutOptions is what the hosted checkout needs to open.
type CheckoutOptions struct {
	KeyID           string
	RazorpayOrderID string
	AmountPaise     int
	Currency        string
	Name            string
	Description     string
	ContactNumber   string
}

// CheckoutPayment is the handback from a completed hosted checkout.
// It proves nothing until the backend verifies the signature.
type CheckoutPayment struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
}

// HostedCheckout abstracts the embedded Razorpay surface. Load fetches
// the checkout script; Open runs one payment attempt. A dismissed
// checkout returns (nil, nil): not a failure, just no payment.
type HostedCheckout interface {
	Load(ctx context.Context) error
	Open(ctx context.Context, opts CheckoutOptions) (*CheckoutPayment, error)
}

// Gateway drives an online payment end to end: create the gateway
// order, open hosted checkout, verify the handback server-side. Money
// is only ever acknowledged after verification succeeds.
type Gateway struct {
	client   *Client
	hosted   HostedCheckout
	notifier Notifier

	mu     sync.Mutex
	loaded bool
}

// NewGateway builds a gateway bridge. Notifier may be nil.
func NewGateway(client *Client, hosted HostedCheckout, notifier Notifier) *Gateway {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Gateway{client: client, hosted: hosted, notifier: notifier}
}

// EnsureLoaded loads the hosted checkout script once. Repeat calls
// after a success are no-ops; a failure can be retried.
func (g *Gateway) EnsureLoaded(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loaded {
		return nil
	}
	if err := g.hosted.Load(ctx); err != nil {
		return ErrScriptLoad
	}
	g.loaded = true
	return nil
}

// Pay runs one payment attempt for the given order. It returns the
// verified result, or (nil, nil) when the customer dismissed the
// checkout without paying. The order stays pending on every path that
// does not end in a successful verification.
func (g *Gateway) Pay(ctx context.Context, orderID uuid.UUID, amountPaise int, opts CheckoutOptions) (*VerifyResult, error) {
	if err := g.EnsureLoaded(ctx); err != nil {
		g.notifier.Error("payment is unavailable right now, please try again")
		return nil, err
	}

	paymentOrder, err := g.client.CreatePaymentOrder(ctx, orderID, amountPaise)
	if err != nil {
		g.notifier.Error("could not start the payment, please try again")
		return nil, err
	}

	opts.KeyID = paymentOrder.KeyID
	opts.RazorpayOrderID = paymentOrder.RazorpayOrderID
	opts.AmountPaise = paymentOrder.AmountPaise
	opts.Currency = paymentOrder.Currency

	payment, err := g.hosted.Open(ctx, opts)
	if err != nil {
		g.notifier.Error("payment failed, you have not been charged")
		return nil, err
	}
	if payment == nil {
		// Dismissed. The order is still pending and can be retried.
		g.notifier.Error("payment cancelled, your order is awaiting payment")
		return nil, nil
	}

	result, err := g.client.VerifyPayment(ctx, VerifyInput{
		OrderID:           orderID,
		RazorpayOrderID:   payment.RazorpayOrderID,
		RazorpayPaymentID: payment.RazorpayPaymentID,
		RazorpaySignature: payment.RazorpaySignature,
	})
	if err != nil {
		g.notifier.Error("payment could not be verified, please contact support")
		return nil, err
	}

	g.notifier.Success("payment successful")
	return result, nil
}
