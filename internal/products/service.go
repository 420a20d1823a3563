package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/elorielabs/elorie-backend/pkg/db/models"
	pkgerrors "github.com/elorielabs/elorie-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the product controllers.
type Service interface {
	List(ctx context.Context, filters ListFilters) (*ListPage, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, req CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository interface {
	List(ctx context.Context, filters ListFilters) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
}

// NewService constructs a product service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*ListPage, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}
	return &ListPage{
		Items: items,
		Total: total,
		Page:  page,
		Limit: filters.limit(),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	if req.OriginalPricePaise != nil && *req.OriginalPricePaise < req.PricePaise {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "original price must not be below the sale price")
	}
	product, err := s.repo.Create(ctx, req.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	req.apply(product)
	if product.OriginalPricePaise != nil && *product.OriginalPricePaise < product.PricePaise {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "original price must not be below the sale price")
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}
