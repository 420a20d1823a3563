package orders

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

// Service owns order placement and the one-way status flow. Totals and
// COD eligibility are always recomputed server-side from current
// product rows; nothing money-related is trusted from the request.
type Service interface {
	Place(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*models.Order, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	GetMine(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)

	List(ctx context.Context, filters ListFilters) (*ListPage, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, to enums.OrderStatus) (*models.Order, error)
	SetTracking(ctx context.Context, orderID uuid.UUID, trackingNumber string) (*models.Order, error)
}

type repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) error
	SetTracking(ctx context.Context, id uuid.UUID, trackingNumber string) error
}

type cartStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams collects the order service dependencies.
type ServiceParams struct {
	Repo     repository
	Carts    cartStore
	Checkout config.CheckoutConfig
}

type service struct {
	repo     repository
	carts    cartStore
	checkout config.CheckoutConfig
}

// NewService constructs the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	return &service{
		repo:     params.Repo,
		carts:    params.Carts,
		checkout: params.Checkout,
	}, nil
}

func (s *service) Place(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*models.Order, error) {
	if !req.PaymentMode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment mode")
	}

	address := req.ShippingAddress.Clean()
	if missing := address.MissingFields(); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete").
			WithDetails(map[string]any{"missingFields": missing})
	}

	entries, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(entries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	var (
		subtotal int
		shipping int
		codOK    = true
		items    = make([]models.OrderItem, 0, len(entries))
	)
	for _, entry := range entries {
		product := entry.Product
		if product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a cart item is no longer available")
		}
		if !product.InStock {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("%s is out of stock", product.Name))
		}
		subtotal += product.PricePaise * entry.Quantity
		shipping += product.ShippingChargePaise
		if !product.CODEligible() {
			codOK = false
		}
		items = append(items, models.OrderItem{
			ID:             uuid.New(),
			ProductID:      product.ID,
			Name:           product.Name,
			ImageURL:       product.ImageURL,
			Quantity:       entry.Quantity,
			UnitPricePaise: product.PricePaise,
			CODAvailable:   product.CODEligible(),
		})
	}

	if req.PaymentMode == enums.PaymentModeCOD && !codOK {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"cart contains items not eligible for cash on delivery")
	}

	if subtotal > s.checkout.FreeShippingOverPaise {
		shipping = 0
	}

	status := enums.OrderStatusPendingPayment
	if req.PaymentMode == enums.PaymentModeCOD {
		status = enums.OrderStatusPlaced
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          status,
		PaymentMode:     req.PaymentMode,
		SubtotalPaise:   subtotal,
		ShippingPaise:   shipping,
		TotalPaise:      subtotal + shipping,
		ShippingAddress: address,
		Items:           items,
	}
	if _, err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	// COD completes checkout immediately; an online payment keeps the
	// cart until verification succeeds so a failed attempt loses nothing.
	if req.PaymentMode == enums.PaymentModeCOD {
		if err := s.carts.Clear(ctx, userID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
	}
	return order, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return orders, nil
}

func (s *service) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetMine(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !CanCancel(order.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
	}
	if err := s.repo.UpdateStatus(ctx, orderID, order.Status, enums.OrderStatusCancelled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed, retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
	}
	order.Status = enums.OrderStatusCancelled
	return order, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*ListPage, error) {
	if filters.Status != "" && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status filter")
	}
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}
	return &ListPage{Items: items, Total: total, Page: page, Limit: filters.limit()}, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

// AdvanceStatus moves an order exactly one step along the flow. The
// requested status must equal the computed successor; skips and
// rewinds are rejected.
func (s *service) AdvanceStatus(ctx context.Context, orderID uuid.UUID, to enums.OrderStatus) (*models.Order, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	next, ok := NextStatus(order.Status)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %s cannot advance", order.Status))
	}
	if to != next {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %s can only advance to %s", order.Status, next))
	}
	if err := s.repo.UpdateStatus(ctx, orderID, order.Status, next); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed, retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	order.Status = next
	return order, nil
}

func (s *service) SetTracking(ctx context.Context, orderID uuid.UUID, trackingNumber string) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetTracking(ctx, orderID, trackingNumber); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set tracking number")
	}
	order.TrackingNumber = &trackingNumber
	return order, nil
}
