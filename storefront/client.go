package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notifier receives user-visible messages. Implementations decide how
// they surface (toast, console, log).
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Navigator moves the UI to a route. The transport layer never calls
// it; only workflow components (checkout, gateway) navigate.
type Navigator func(route string)

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string)   {}

// Config builds a Client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenStore

	// SessionExpired fires once per 401 response that carried a bearer
	// token. The token store is already cleared when it runs.
	SessionExpired func()
}

// Client is the typed storefront API client. It owns the bearer token
// lifecycle: sign-in stores the token, any authenticated 401 clears it.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenStore
	sessionExpired func()

	mu sync.Mutex
	me *User
}

// NewClient validates the config and builds a client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("storefront: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	return &Client{
		baseURL:        base,
		http:           httpClient,
		tokens:         tokens,
		sessionExpired: cfg.SessionExpired,
	}, nil
}

// IsAuthenticated reports whether a token is currently stored.
func (c *Client) IsAuthenticated() bool {
	token, err := c.tokens.Token()
	return err == nil && token != ""
}

type requestOptions struct {
	idempotencyKey string
}

type requestOption func(*requestOptions)

// withIdempotencyKey attaches a fresh key so server-side replay
// protection can absorb client retries.
func withIdempotencyKey() requestOption {
	return func(o *requestOptions) {
		o.idempotencyKey = uuid.NewString()
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...requestOption) error {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("storefront: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("storefront: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if options.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", options.idempotencyKey)
	}

	token, err := c.tokens.Token()
	if err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	hadToken := token != ""

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storefront: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp)
		if resp.StatusCode == http.StatusUnauthorized && hadToken {
			c.expireSession()
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("storefront: decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("storefront: decode payload: %w", err)
	}
	return nil
}

// expireSession clears local credentials and cached profile, then
// fires the hook. It never navigates; that is the app's decision.
func (c *Client) expireSession() {
	_ = c.tokens.Clear()
	c.mu.Lock()
	c.me = nil
	c.mu.Unlock()
	if c.sessionExpired != nil {
		c.sessionExpired()
	}
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Code:    "UNKNOWN",
		Message: http.StatusText(resp.StatusCode),
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details any    `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
	}
	return apiErr
}

func (c *Client) storeAuth(resp *AuthResponse) error {
	if resp == nil || resp.Token == "" {
		return fmt.Errorf("storefront: auth response missing token")
	}
	if err := c.tokens.Set(resp.Token); err != nil {
		return fmt.Errorf("storefront: persist token: %w", err)
	}
	c.mu.Lock()
	c.me = resp.User
	c.mu.Unlock()
	return nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", input, &resp, withIdempotencyKey()); err != nil {
		return nil, err
	}
	if err := c.storeAuth(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login signs a customer in and stores the token.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if err := c.storeAuth(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the server session and clears local credentials. The
// local state is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	_ = c.tokens.Clear()
	c.mu.Lock()
	c.me = nil
	c.mu.Unlock()
	return err
}

// Me returns the cached profile, fetching it on first use.
func (c *Client) Me(ctx context.Context) (*User, error) {
	c.mu.Lock()
	if c.me != nil {
		cached := *c.me
		c.mu.Unlock()
		return &cached, nil
	}
	c.mu.Unlock()
	return c.RefreshMe(ctx)
}

// RefreshMe always fetches the profile from the server.
func (c *Client) RefreshMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.me = &user
	c.mu.Unlock()
	return &user, nil
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/api/auth/me", input, &user); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.me = &user
	c.mu.Unlock()
	return &user, nil
}

// Products lists the public catalog.
func (c *Client) Products(ctx context.Context, filters ProductFilters) (*ProductPage, error) {
	query := url.Values{}
	if filters.Category != "" {
		query.Set("category", filters.Category)
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.Trending {
		query.Set("trending", "true")
	}
	if filters.BestSeller {
		query.Set("bestSeller", "true")
	}
	if filters.Page > 0 {
		query.Set("page", strconv.Itoa(filters.Page))
	}
	if filters.Limit > 0 {
		query.Set("limit", strconv.Itoa(filters.Limit))
	}
	path := "/api/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page ProductPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Product fetches one catalog item.
func (c *Client) Product(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id.String(), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CartFetch loads the authoritative cart snapshot.
func (c *Client) CartFetch(ctx context.Context) (*CartSnapshot, error) {
	var snap CartSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// CartAdd adds a product and returns the resulting snapshot.
func (c *Client) CartAdd(ctx context.Context, productID uuid.UUID, quantity int) (*CartSnapshot, error) {
	body := map[string]any{"itemId": productID}
	if quantity > 0 {
		body["quantity"] = quantity
	}
	var snap CartSnapshot
	if err := c.do(ctx, http.MethodPost, "/api/cart", body, &snap, withIdempotencyKey()); err != nil {
		return nil, err
	}
	return &snap, nil
}

// CartSetQuantity sets an absolute quantity; below one removes.
func (c *Client) CartSetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*CartSnapshot, error) {
	var snap CartSnapshot
	body := map[string]int{"quantity": quantity}
	if err := c.do(ctx, http.MethodPut, "/api/cart/"+productID.String(), body, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// CartRemove removes a product line.
func (c *Client) CartRemove(ctx context.Context, productID uuid.UUID) (*CartSnapshot, error) {
	var snap CartSnapshot
	if err := c.do(ctx, http.MethodDelete, "/api/cart/"+productID.String(), nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// CartClear empties the cart.
func (c *Client) CartClear(ctx context.Context) (*CartSnapshot, error) {
	var snap CartSnapshot
	if err := c.do(ctx, http.MethodDelete, "/api/cart", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// PlaceOrder submits checkout.
func (c *Client) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", input, &order, withIdempotencyKey()); err != nil {
		return nil, err
	}
	return &order, nil
}

// Orders lists the caller's order history.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order fetches one of the caller's orders.
func (c *Client) Order(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+id.String(), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels an order still awaiting payment.
func (c *Client) CancelOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/orders/"+id.String()+"/cancel", nil, &order, withIdempotencyKey()); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreatePaymentOrder registers a gateway order for hosted checkout.
func (c *Client) CreatePaymentOrder(ctx context.Context, orderID uuid.UUID, amountPaise int) (*PaymentOrder, error) {
	body := map[string]any{"orderId": orderID, "amount": amountPaise}
	var payment PaymentOrder
	if err := c.do(ctx, http.MethodPost, "/api/payment/create-order", body, &payment, withIdempotencyKey()); err != nil {
		return nil, err
	}
	return &payment, nil
}

// VerifyPayment submits the checkout handback for server verification.
func (c *Client) VerifyPayment(ctx context.Context, input VerifyInput) (*VerifyResult, error) {
	var result VerifyResult
	if err := c.do(ctx, http.MethodPost, "/api/payment/verify", input, &result, withIdempotencyKey()); err != nil {
		return nil, err
	}
	return &result, nil
}
