package storefront

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product mirrors the catalog item the API serves. Prices are paise.
type Product struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	PricePaise          int       `json:"pricePaise"`
	OriginalPricePaise  *int      `json:"originalPricePaise,omitempty"`
	Category            string    `json:"category,omitempty"`
	Material            string    `json:"material,omitempty"`
	ImageURL            string    `json:"imageUrl,omitempty"`
	Images              []string  `json:"images,omitempty"`
	InStock             bool      `json:"inStock"`
	IsTrending          bool      `json:"isTrending"`
	IsBestSeller        bool      `json:"isBestSeller"`
	Rating              float64   `json:"rating,omitempty"`
	ReviewCount         int       `json:"reviewCount,omitempty"`
	CODAvailable        *bool     `json:"codAvailable,omitempty"`
	ShippingChargePaise int       `json:"shippingChargePaise"`
}

// CODEligible mirrors the backend rule: only an explicit false
// disqualifies a product from cash on delivery.
func (p *Product) CODEligible() bool {
	return p.CODAvailable == nil || *p.CODAvailable
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Items []Product `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// ProductFilters narrows a catalog listing request.
type ProductFilters struct {
	Category   string
	Search     string
	Trending   bool
	BestSeller bool
	Page       int
	Limit      int
}

// CartItem is one line of the backend cart snapshot.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
}

// CartSnapshot is the full authoritative cart state every cart
// endpoint responds with.
type CartSnapshot struct {
	ID            uuid.UUID  `json:"id"`
	Items         []CartItem `json:"items"`
	ItemCount     int        `json:"itemCount"`
	SubtotalPaise int        `json:"subtotalPaise"`
	CODAvailable  bool       `json:"codAvailable"`
}

// Address is a delivery address document.
type Address struct {
	ID            string `json:"id,omitempty"`
	Label         string `json:"label,omitempty"`
	Address       string `json:"address"`
	City          string `json:"city"`
	District      string `json:"district"`
	State         string `json:"state"`
	Landmark      string `json:"landmark,omitempty"`
	ContactNumber string `json:"contactNumber"`
	PinCode       string `json:"pinCode"`
	IsDefault     bool   `json:"isDefault,omitempty"`
}

// MissingFields returns the required delivery fields that are blank.
func (a Address) MissingFields() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("address", a.Address)
	check("city", a.City)
	check("district", a.District)
	check("state", a.State)
	check("contactNumber", a.ContactNumber)
	check("pinCode", a.PinCode)
	return missing
}

// User is the customer profile the API serves.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	FullName  string    `json:"fullName,omitempty"`
	Addresses []Address `json:"addresses"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResponse is the sign-in/registration payload.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// RegisterInput creates an account.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// UpdateProfileInput applies a partial profile update. Addresses, when
// present, replace the address book wholesale.
type UpdateProfileInput struct {
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	FullName  *string   `json:"fullName,omitempty"`
	Addresses []Address `json:"addresses,omitempty"`
}

// PaymentMode selects how an order is settled.
type PaymentMode string

const (
	PaymentModeCOD PaymentMode = "COD"
	PaymentModeUPI PaymentMode = "UPI"
)

// Order statuses as the API reports them.
const (
	OrderStatusPendingPayment = "pendingPayment"
	OrderStatusPlaced         = "orderPlaced"
	OrderStatusConfirmed      = "orderConfirmed"
	OrderStatusDispatched     = "orderDispatched"
	OrderStatusDelivered      = "orderDelivered"
	OrderStatusCancelled      = "cancelled"
)

// OrderItem is a frozen product line on an order.
type OrderItem struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"orderId"`
	ProductID      uuid.UUID `json:"productId"`
	Name           string    `json:"name"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPricePaise int       `json:"unitPricePaise"`
	CODAvailable   bool      `json:"codAvailable"`
}

// Order is a placed order with frozen totals in paise.
type Order struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"userId"`
	Status          string      `json:"status"`
	PaymentMode     PaymentMode `json:"paymentMode"`
	SubtotalPaise   int         `json:"subtotalPaise"`
	ShippingPaise   int         `json:"shippingPaise"`
	TotalPaise      int         `json:"totalPaise"`
	ShippingAddress Address     `json:"shippingAddress"`
	TrackingNumber  *string     `json:"trackingNumber,omitempty"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// OrderPage is one admin page of orders.
type OrderPage struct {
	Items []Order `json:"items"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// PlaceOrderInput submits checkout.
type PlaceOrderInput struct {
	PaymentMode     PaymentMode `json:"paymentMode"`
	ShippingAddress Address     `json:"shippingAddress"`
}

// PaymentOrder is what the hosted checkout needs to open.
type PaymentOrder struct {
	KeyID           string `json:"keyId"`
	AmountPaise     int    `json:"amount"`
	Currency        string `json:"currency"`
	RazorpayOrderID string `json:"razorpayOrderId"`
}

// VerifyInput is the post-checkout handback sent for verification.
type VerifyInput struct {
	OrderID           uuid.UUID `json:"orderId"`
	RazorpayOrderID   string    `json:"razorpayOrderId"`
	RazorpayPaymentID string    `json:"razorpayPaymentId"`
	RazorpaySignature string    `json:"razorpaySignature"`
}

// VerifyResult confirms the settled order.
type VerifyResult struct {
	OrderID uuid.UUID `json:"orderId"`
	Status  string    `json:"status"`
}

// CreateProductInput adds a catalog item (admin).
type CreateProductInput struct {
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	PricePaise          int      `json:"pricePaise"`
	OriginalPricePaise  *int     `json:"originalPricePaise,omitempty"`
	Category            string   `json:"category,omitempty"`
	Material            string   `json:"material,omitempty"`
	ImageURL            string   `json:"imageUrl,omitempty"`
	Images              []string `json:"images,omitempty"`
	InStock             *bool    `json:"inStock,omitempty"`
	IsTrending          bool     `json:"isTrending,omitempty"`
	IsBestSeller        bool     `json:"isBestSeller,omitempty"`
	CODAvailable        *bool    `json:"codAvailable,omitempty"`
	ShippingChargePaise int      `json:"shippingChargePaise,omitempty"`
}
