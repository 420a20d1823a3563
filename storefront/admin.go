package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// AdminClient drives the admin surface. It shares the transport with
// Client but keeps its own token namespace, so an admin session never
// collides with a customer one on the same machine.
type AdminClient struct {
	*Client
}

// NewAdminClient builds an admin client. When cfg.Tokens is nil the
// token lives in memory; file-backed callers should pass a store built
// with TokenNamespaceAdmin.
func NewAdminClient(cfg Config) (*AdminClient, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &AdminClient{Client: client}, nil
}

// Login signs in against the admin surface.
func (c *AdminClient) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/admin/login", body, &resp); err != nil {
		return nil, err
	}
	if err := c.storeAuth(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminOrderFilters narrows the admin order listing.
type AdminOrderFilters struct {
	Status string
	Page   int
	Limit  int
}

// Orders lists orders across all customers.
func (c *AdminClient) Orders(ctx context.Context, filters AdminOrderFilters) (*OrderPage, error) {
	query := url.Values{}
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	if filters.Page > 0 {
		query.Set("page", strconv.Itoa(filters.Page))
	}
	if filters.Limit > 0 {
		query.Set("limit", strconv.Itoa(filters.Limit))
	}
	path := "/api/admin/orders"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page OrderPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Order fetches any order by id.
func (c *AdminClient) Order(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/api/admin/orders/"+id.String(), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AdvanceStatus moves an order one step along the fulfilment flow.
func (c *AdminClient) AdvanceStatus(ctx context.Context, id uuid.UUID, status string) (*Order, error) {
	var order Order
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/api/admin/orders/"+id.String()+"/status", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SetTracking records the courier tracking number.
func (c *AdminClient) SetTracking(ctx context.Context, id uuid.UUID, trackingNumber string) (*Order, error) {
	var order Order
	body := map[string]string{"trackingNumber": trackingNumber}
	if err := c.do(ctx, http.MethodPatch, "/api/admin/orders/"+id.String()+"/tracking", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateProduct adds a catalog item.
func (c *AdminClient) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, "/api/admin/products", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct applies a partial update to a catalog item.
func (c *AdminClient) UpdateProduct(ctx context.Context, id uuid.UUID, input CreateProductInput) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPut, "/api/admin/products/"+id.String(), input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a catalog item.
func (c *AdminClient) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/products/"+id.String(), nil, nil)
}
