package products

import (
	"context"
	"testing"

	"github.com/elorielabs/elorie-backend/pkg/db/models"
	pkgerrors "github.com/elorielabs/elorie-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubRepo struct {
	items   map[uuid.UUID]*models.Product
	listed  []models.Product
	total   int64
	lastFil ListFilters
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: map[uuid.UUID]*models.Product{}}
}

func (s *stubRepo) List(ctx context.Context, filters ListFilters) ([]models.Product, int64, error) {
	s.lastFil = filters
	return s.listed, s.total, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.items[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.items[product.ID] = product
	return product, nil
}

func (s *stubRepo) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.items[product.ID] = product
	return product, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.items, id)
	return nil
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestListDefaultsPaging(t *testing.T) {
	repo := newStubRepo()
	repo.total = 42
	svc := newTestService(t, repo)

	page, err := svc.List(context.Background(), ListFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Page != 1 || page.Limit != 20 {
		t.Fatalf("expected default page=1 limit=20, got page=%d limit=%d", page.Page, page.Limit)
	}
	if page.Total != 42 {
		t.Fatalf("expected total passthrough, got %d", page.Total)
	}
}

func TestGetUnknownProduct(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateRejectsDiscountBelowSalePrice(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	original := 10000
	_, err := svc.Create(context.Background(), CreateProductRequest{
		Name:               "Gold ring",
		PricePaise:         25000,
		OriginalPricePaise: &original,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), CreateProductRequest{
		Name:       "Gold ring",
		PricePaise: 25000,
		Category:   "rings",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newPrice := 19900
	updated, err := svc.Update(context.Background(), created.ID, UpdateProductRequest{
		PricePaise: &newPrice,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PricePaise != 19900 {
		t.Fatalf("price not applied: %d", updated.PricePaise)
	}
	if updated.Name != "Gold ring" || updated.Category != "rings" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestDeleteUnknownProduct(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	err := svc.Delete(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
