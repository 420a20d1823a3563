package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func unauthorizedEnvelope() map[string]any {
	return map[string]any{
		"error": map[string]any{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
	}
}

func TestSessionExpiredHookFiresOncePerAuthenticatedRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, unauthorizedEnvelope())
	}))
	defer server.Close()

	var expired atomic.Int32
	tokens := &MemoryTokenStore{}
	require.NoError(t, tokens.Set("stale-token"))

	client, err := NewClient(Config{
		BaseURL:        server.URL,
		Tokens:         tokens,
		SessionExpired: func() { expired.Add(1) },
	})
	require.NoError(t, err)

	_, err = client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsCode(err, "UNAUTHORIZED"))
	assert.EqualValues(t, 1, expired.Load())

	token, err := tokens.Token()
	require.NoError(t, err)
	assert.Empty(t, token, "rejected token must be cleared")

	// With the token gone, further 401s carry no credentials and must
	// not fire the hook again.
	_, err = client.Me(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 1, expired.Load())
}

func TestFailedLoginDoesNotFireSessionExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{
			"error": map[string]any{"code": "UNAUTHORIZED", "message": "invalid credentials"},
		})
	}))
	defer server.Close()

	var expired atomic.Int32
	client, err := NewClient(Config{
		BaseURL:        server.URL,
		SessionExpired: func() { expired.Add(1) },
	})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "someone", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.EqualValues(t, 0, expired.Load(), "a failed sign-in is not an expired session")
}

func TestClientAttachesIdempotencyKeyToCheckout(t *testing.T) {
	var captured atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Store(r.Header.Get("Idempotency-Key"))
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"data": map[string]any{"id": uuid.NewString(), "status": "orderPlaced"},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.PlaceOrder(context.Background(), PlaceOrderInput{
		PaymentMode: PaymentModeCOD,
		ShippingAddress: Address{
			Address: "1 Marine Drive", City: "Kochi", District: "Ernakulam",
			State: "Kerala", ContactNumber: "9876543210", PinCode: "682001",
		},
	})
	require.NoError(t, err)

	key, _ := captured.Load().(string)
	require.NotEmpty(t, key, "checkout submissions must carry a replay key")
	_, err = uuid.Parse(key)
	assert.NoError(t, err)
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnprocessableEntity, map[string]any{
			"error": map[string]any{
				"code":    "STATE_CONFLICT",
				"message": "cart is empty",
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.CartFetch(context.Background())
	require.Error(t, err)
	assert.True(t, IsCode(err, "STATE_CONFLICT"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "cart is empty", apiErr.Message)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}
