package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/elorielabs/elorie-backend/pkg/config"
	"github.com/elorielabs/elorie-backend/pkg/db/models"
	"github.com/elorielabs/elorie-backend/pkg/enums"
	pkgerrors "github.com/elorielabs/elorie-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service bridges pending-payment orders to the hosted gateway
// checkout. Success is only ever concluded from a server-side
// signature check; the client's callback is treated as a hint.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*CreateOrderResponse, error)
	Verify(ctx context.Context, userID uuid.UUID, req VerifyRequest) (*VerifyResponse, error)
}

type gateway interface {
	CreateOrder(amountPaise int, currency, receipt string, notes map[string]string) (string, error)
	KeyID() string
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

type orderStore interface {
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error
	MarkPaid(ctx context.Context, id uuid.UUID, paymentID string) error
}

type cartClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams collects the payment service dependencies.
type ServiceParams struct {
	Gateway  gateway
	Orders   orderStore
	Carts    cartClearer
	Checkout config.CheckoutConfig
}

type service struct {
	gateway  gateway
	orders   orderStore
	carts    cartClearer
	checkout config.CheckoutConfig
}

// NewService constructs the payment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order store is required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart clearer is required")
	}
	return &service{
		gateway:  params.Gateway,
		orders:   params.Orders,
		carts:    params.Carts,
		checkout: params.Checkout,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*CreateOrderResponse, error) {
	order, err := s.loadOwn(ctx, req.OrderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPendingPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}
	if order.PaymentMode != enums.PaymentModeUPI {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not an online payment order")
	}
	if req.AmountPaise != order.TotalPaise {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount does not match the order total")
	}

	currency := s.checkout.Currency
	if currency == "" {
		currency = "INR"
	}
	gatewayOrderID, err := s.gateway.CreateOrder(order.TotalPaise, currency, order.ID.String(), map[string]string{
		"userId": userID.String(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create gateway order")
	}

	// A retry after an abandoned checkout replaces the previous
	// gateway order; only the latest one can verify.
	if err := s.orders.SetGatewayOrderID(ctx, order.ID, gatewayOrderID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store gateway order id")
	}

	return &CreateOrderResponse{
		KeyID:           s.gateway.KeyID(),
		AmountPaise:     order.TotalPaise,
		Currency:        currency,
		RazorpayOrderID: gatewayOrderID,
	}, nil
}

func (s *service) Verify(ctx context.Context, userID uuid.UUID, req VerifyRequest) (*VerifyResponse, error) {
	order, err := s.loadOwn(ctx, req.OrderID, userID)
	if err != nil {
		return nil, err
	}

	// A repeated verify of an already-settled payment is a success,
	// not an error; retried requests must not fail the customer.
	if order.Status == enums.OrderStatusPlaced &&
		order.RazorpayPaymentID != nil && *order.RazorpayPaymentID == req.RazorpayPaymentID {
		return &VerifyResponse{OrderID: order.ID, Status: order.Status.String()}, nil
	}
	if order.Status != enums.OrderStatusPendingPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}
	if order.RazorpayOrderID == nil || *order.RazorpayOrderID != req.RazorpayOrderID {
		return nil, pkgerrors.New(pkgerrors.CodePayment, "payment does not belong to this order")
	}
	if !s.gateway.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		return nil, pkgerrors.New(pkgerrors.CodePayment, "payment signature verification failed")
	}

	if err := s.orders.MarkPaid(ctx, order.ID, req.RazorpayPaymentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed, retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order paid")
	}
	if err := s.carts.Clear(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}

	return &VerifyResponse{OrderID: order.ID, Status: enums.OrderStatusPlaced.String()}, nil
}

func (s *service) loadOwn(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}
