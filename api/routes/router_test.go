package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/elorielabs/elorie-backend/internal/auth"
	cartsvc "github.com/elorielabs/elorie-backend/internal/cart"
	ordersvc "github.com/elorielabs/elorie-backend/internal/orders"
	paymentsvc "github.com/elorielabs/elorie-backend/internal/payment"
	productsvc "github.com/elorielabs/elorie-backend/internal/products"
	"github.com/elorielabs/elorie-backend/internal/users"
	pkgauth "github.com/elorielabs/elorie-backend/pkg/auth"
	"github.com/elorielabs/elorie-backend/pkg/config"
	"github.com/elorielabs/elorie-backend/pkg/db/models"
	"github.com/elorielabs/elorie-backend/pkg/enums"
)

type memStore struct {
	mu     sync.Mutex
	values map[string]string
	counts map[string]int64
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}, counts: map[string]int64{}}
}

func (m *memStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.values[key]; exists {
		return false, nil
	}
	if s, ok := value.(string); ok {
		m.values[key] = s
	}
	return true, nil
}

func (m *memStore) IdempotencyKey(scope, id string) string {
	return "elorie:idem:" + scope + ":" + id
}

func (m *memStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memStore) Ping(ctx context.Context) error { return nil }

type allowAllSessions struct{}

func (allowAllSessions) Has(ctx context.Context, scope enums.AuthScope, sessionID string) (bool, error) {
	return true, nil
}

type fakeAuth struct{}

func (fakeAuth) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.AuthResponse, error) {
	return &authsvc.AuthResponse{Token: "token", User: &users.UserDTO{}}, nil
}
func (fakeAuth) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	return &authsvc.AuthResponse{Token: "token", User: &users.UserDTO{}}, nil
}
func (fakeAuth) AdminLogin(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	return &authsvc.AuthResponse{Token: "token", User: &users.UserDTO{}}, nil
}
func (fakeAuth) Logout(ctx context.Context, scope enums.AuthScope, sessionID string) error {
	return nil
}
func (fakeAuth) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}
func (fakeAuth) UpdateMe(ctx context.Context, userID uuid.UUID, req authsvc.UpdateProfileRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

type fakeProducts struct{}

func (fakeProducts) List(ctx context.Context, filters productsvc.ListFilters) (*productsvc.ListPage, error) {
	return &productsvc.ListPage{Items: []models.Product{}, Page: 1, Limit: 20}, nil
}
func (fakeProducts) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return &models.Product{ID: id}, nil
}
func (fakeProducts) Create(ctx context.Context, req productsvc.CreateProductRequest) (*models.Product, error) {
	return &models.Product{ID: uuid.New()}, nil
}
func (fakeProducts) Update(ctx context.Context, id uuid.UUID, req productsvc.UpdateProductRequest) (*models.Product, error) {
	return &models.Product{ID: id}, nil
}
func (fakeProducts) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeCart struct{}

func (fakeCart) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.Snapshot, error) {
	return &cartsvc.Snapshot{ID: userID, Items: []cartsvc.EntryDTO{}}, nil
}
func (fakeCart) Add(ctx context.Context, userID uuid.UUID, req cartsvc.AddRequest) (*cartsvc.Snapshot, error) {
	return &cartsvc.Snapshot{ID: userID, Items: []cartsvc.EntryDTO{}}, nil
}
func (fakeCart) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartsvc.Snapshot, error) {
	return &cartsvc.Snapshot{ID: userID, Items: []cartsvc.EntryDTO{}}, nil
}
func (fakeCart) Remove(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.Snapshot, error) {
	return &cartsvc.Snapshot{ID: userID, Items: []cartsvc.EntryDTO{}}, nil
}
func (fakeCart) Clear(ctx context.Context, userID uuid.UUID) (*cartsvc.Snapshot, error) {
	return &cartsvc.Snapshot{ID: userID, Items: []cartsvc.EntryDTO{}}, nil
}

type fakeOrders struct {
	mu         sync.Mutex
	placeCalls int
}

func (f *fakeOrders) Place(ctx context.Context, userID uuid.UUID, req ordersvc.PlaceOrderRequest) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placeCalls++
	return &models.Order{ID: uuid.New(), UserID: userID, Status: enums.OrderStatusPlaced}, nil
}
func (f *fakeOrders) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}
func (f *fakeOrders) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: orderID, UserID: userID}, nil
}
func (f *fakeOrders) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: orderID, UserID: userID, Status: enums.OrderStatusCancelled}, nil
}
func (f *fakeOrders) List(ctx context.Context, filters ordersvc.ListFilters) (*ordersvc.ListPage, error) {
	return &ordersvc.ListPage{Items: []models.Order{}, Page: 1, Limit: 20}, nil
}
func (f *fakeOrders) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: orderID}, nil
}
func (f *fakeOrders) AdvanceStatus(ctx context.Context, orderID uuid.UUID, to enums.OrderStatus) (*models.Order, error) {
	return &models.Order{ID: orderID, Status: to}, nil
}
func (f *fakeOrders) SetTracking(ctx context.Context, orderID uuid.UUID, trackingNumber string) (*models.Order, error) {
	return &models.Order{ID: orderID, TrackingNumber: &trackingNumber}, nil
}

type fakePayment struct{}

func (fakePayment) CreateOrder(ctx context.Context, userID uuid.UUID, req paymentsvc.CreateOrderRequest) (*paymentsvc.CreateOrderResponse, error) {
	return &paymentsvc.CreateOrderResponse{KeyID: "rzp_test", Currency: "INR"}, nil
}
func (fakePayment) Verify(ctx context.Context, userID uuid.UUID, req paymentsvc.VerifyRequest) (*paymentsvc.VerifyResponse, error) {
	return &paymentsvc.VerifyResponse{Status: enums.OrderStatusPlaced.String()}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "elorie-test",
			ExpirationMinutes: 15,
			SessionTTLMinutes: 60,
		},
	}
}

func mintToken(t *testing.T, cfg *config.Config, scope enums.AuthScope) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Scope:  scope,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func newTestRouter(t *testing.T) (http.Handler, *config.Config, *fakeOrders) {
	t.Helper()
	cfg := testConfig()
	orders := &fakeOrders{}
	router := NewRouter(Deps{
		Config:   cfg,
		Redis:    newMemStore(),
		Sessions: allowAllSessions{},
		Auth:     fakeAuth{},
		Products: fakeProducts{},
		Cart:     fakeCart{},
		Orders:   orders,
		Payment:  fakePayment{},
	})
	return router, cfg, orders
}

func TestPublicProductsNoAuth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCartRequiresAuth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestPlaceOrderRequiresIdempotencyKey(t *testing.T) {
	router, cfg, _ := newTestRouter(t)
	token := mintToken(t, cfg, enums.AuthScopeCustomer)

	body := `{"paymentMode":"COD","shippingAddress":{"address":"1 St","city":"Kochi","district":"EKM","state":"KL","contactNumber":"9876543210","pinCode":"682001"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPlaceOrderReplaySameKey(t *testing.T) {
	router, cfg, orders := newTestRouter(t)
	token := mintToken(t, cfg, enums.AuthScopeCustomer)

	body := `{"paymentMode":"COD","shippingAddress":{"address":"1 St","city":"Kochi","district":"EKM","state":"KL","contactNumber":"9876543210","pinCode":"682001"}}`
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "place-once")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", first.Code, first.Body.String())
	}
	second := send()
	if second.Code != http.StatusCreated {
		t.Fatalf("replay should return the stored response, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatal("replay must return the original body")
	}
	if orders.placeCalls != 1 {
		t.Fatalf("service must run once, ran %d times", orders.placeCalls)
	}
}

func TestAdminRoutesRejectCustomerToken(t *testing.T) {
	router, cfg, _ := newTestRouter(t)
	token := mintToken(t, cfg, enums.AuthScopeCustomer)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("customer token on admin surface must be 401, got %d", rec.Code)
	}
}

func TestAdminRoutesAcceptAdminToken(t *testing.T) {
	router, cfg, _ := newTestRouter(t)
	token := mintToken(t, cfg, enums.AuthScopeAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
