package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elorielabs/elorie-backend/api/middleware"
	cartsvc "github.com/elorielabs/elorie-backend/internal/cart"
	"github.com/elorielabs/elorie-backend/pkg/config"
	"github.com/elorielabs/elorie-backend/pkg/types"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error
}

func authedRequest(method, target string, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	return req.WithContext(ctx)
}

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	rec := httptest.NewRecorder()
	HealthLive(cfg)(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Elorie-Env"))
}

func TestHealthReadyDegraded(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	handler := HealthReady(cfg, map[string]Pinger{
		"db":    stubPinger{},
		"redis": stubPinger{err: errors.New("connection refused")},
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "degraded", envelope.Data["status"])
	assert.Equal(t, "ok", envelope.Data["db"])
	assert.Contains(t, envelope.Data["redis"], "connection refused")
}

func TestPaymentControllersRefuseWithoutService(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"create-order": PaymentCreateOrder(nil, nil),
		"verify":       PaymentVerify(nil, nil),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler(rec, authedRequest(http.MethodPost, "/api/payment/"+name, "{}"))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, "INTERNAL_ERROR", decodeError(t, rec).Code)
		})
	}
}

func TestCartGetWithoutIdentity(t *testing.T) {
	rec := httptest.NewRecorder()
	CartGet(stubCartService{}, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
}

func TestCartAddRejectsMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	CartAdd(stubCartService{}, nil)(rec, authedRequest(http.MethodPost, "/api/cart", `{"itemId":"not-a-uuid"`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.Snapshot, error) {
	return &cartsvc.Snapshot{ID: userID, Items: []cartsvc.EntryDTO{}, CODAvailable: true}, nil
}
func (stubCartService) Add(ctx context.Context, userID uuid.UUID, req cartsvc.AddRequest) (*cartsvc.Snapshot, error) {
	return &cartsvc.Snapshot{ID: userID, Items: []cartsvc.EntryDTO{}, CODAvailable: true}, nil
}
func (stubCartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartsvc.Snapshot, error) {
	return &cartsvc.Snapshot{ID: userID, Items: []cartsvc.EntryDTO{}, CODAvailable: true}, nil
}
func (stubCartService) Remove(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.Snapshot, error) {
	return &cartsvc.Snapshot{ID: userID, Items: []cartsvc.EntryDTO{}, CODAvailable: true}, nil
}
func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) (*cartsvc.Snapshot, error) {
	return &cartsvc.Snapshot{ID: userID, Items: []cartsvc.EntryDTO{}, CODAvailable: true}, nil
}
