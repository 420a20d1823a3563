package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/elorielabs/elorie-backend/pkg/db/models"
	pkgerrors "github.com/elorielabs/elorie-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the backend-authoritative cart. Every mutation returns
// the resulting snapshot so clients never have to guess state.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
	Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*Snapshot, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Snapshot, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (*Snapshot, error)
	Clear(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
}

type repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error)
	Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     repository
	products productFinder
}

// NewService constructs the cart service.
func NewService(repo repository, products productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	return s.snapshot(ctx, userID)
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*Snapshot, error) {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.products.FindByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.InStock {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock")
	}

	if err := s.repo.Upsert(ctx, userID, product.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add to cart")
	}
	return s.snapshot(ctx, userID)
}

// SetQuantity enforces the quantity floor: anything below one is a
// removal, never an error and never a zero-quantity row.
func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Snapshot, error) {
	if quantity < 1 {
		return s.Remove(ctx, userID, productID)
	}

	if err := s.repo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item is not in the cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update quantity")
	}
	return s.snapshot(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) (*Snapshot, error) {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove from cart")
	}
	return s.snapshot(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return s.snapshot(ctx, userID)
}

func (s *service) snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return snapshotFrom(userID, entries), nil
}
