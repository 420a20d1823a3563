package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// CheckoutStep is the current page of the two-step checkout.
type CheckoutStep string

const (
	StepAddress CheckoutStep = "address"
	StepPayment CheckoutStep = "payment"
)

// ErrCheckoutInFlight is returned when PlaceOrder is called while a
// previous submission has not finished.
var ErrCheckoutInFlight = errors.New("storefront: order submission already in progress")

// AddressSelection is the address choice on the first step: either a
// saved address by id, or a new draft with an optional save-to-book.
type AddressSelection struct {
	SavedID string
	New     *Address
	SaveNew bool
}

// Checkout runs the two-step order flow: address, then payment mode
// and review. State survives failed submissions so the customer never
// re-enters anything.
type Checkout struct {
	client   *Client
	cart     *CartSync
	gateway  *Gateway
	notifier Notifier
	navigate Navigator

	mu        sync.Mutex
	step      CheckoutStep
	selection AddressSelection
	mode      PaymentMode
	inFlight  bool
}

// CheckoutParams wires a checkout session. Gateway may be nil when
// only cash on delivery is offered; Notifier and Navigator may be nil.
type CheckoutParams struct {
	Client   *Client
	Cart     *CartSync
	Gateway  *Gateway
	Notifier Notifier
	Navigate Navigator
}

// NewCheckout starts a session at the address step.
func NewCheckout(params CheckoutParams) (*Checkout, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("storefront: checkout needs a client")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("storefront: checkout needs a cart")
	}
	notifier := params.Notifier
	if notifier == nil {
		notifier = noopNotifier{}
	}
	navigate := params.Navigate
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Checkout{
		client:   params.Client,
		cart:     params.Cart,
		gateway:  params.Gateway,
		notifier: notifier,
		navigate: navigate,
		step:     StepAddress,
		mode:     PaymentModeCOD,
	}, nil
}

// Step returns the current checkout step.
func (c *Checkout) Step() CheckoutStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// PaymentMode returns the currently selected mode.
func (c *Checkout) PaymentMode() PaymentMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SelectSavedAddress picks an address from the customer's book.
func (c *Checkout) SelectSavedAddress(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = AddressSelection{SavedID: id}
}

// UseNewAddress enters a fresh address, optionally saving it to the
// book on placement.
func (c *Checkout) UseNewAddress(addr Address, save bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = AddressSelection{New: &addr, SaveNew: save}
}

// resolveAddress turns the selection into a concrete address. Caller
// holds the lock.
func (c *Checkout) resolveAddress(ctx context.Context) (Address, error) {
	if c.selection.New != nil {
		addr := *c.selection.New
		if missing := addr.MissingFields(); len(missing) > 0 {
			return Address{}, fmt.Errorf("storefront: address incomplete: %s", strings.Join(missing, ", "))
		}
		return addr, nil
	}
	if c.selection.SavedID == "" {
		return Address{}, errors.New("storefront: no delivery address selected")
	}
	user, err := c.client.Me(ctx)
	if err != nil {
		return Address{}, err
	}
	for _, addr := range user.Addresses {
		if addr.ID == c.selection.SavedID {
			return addr, nil
		}
	}
	return Address{}, errors.New("storefront: selected address no longer exists")
}

// ContinueToPayment validates the address and advances to the payment
// step.
func (c *Checkout) ContinueToPayment(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.resolveAddress(ctx); err != nil {
		c.notifier.Error("please complete your delivery address")
		return err
	}
	c.step = StepPayment
	return nil
}

// SelectPaymentMode picks how the order is settled. Cash on delivery
// is refused while the cart holds an ineligible item.
func (c *Checkout) SelectPaymentMode(mode PaymentMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mode == PaymentModeCOD && !c.cart.CODAvailable() {
		c.notifier.Error("some items in your cart are not eligible for cash on delivery")
		return errors.New("storefront: cart not eligible for cash on delivery")
	}
	c.mode = mode
	return nil
}

// ReviewSummary is the final pre-submission view.
type ReviewSummary struct {
	Address       Address
	PaymentMode   PaymentMode
	Items         []CartItem
	SubtotalPaise int
}

// Review re-validates everything before submission. Cart contents may
// have changed since the mode was picked, so COD eligibility is
// checked again here.
func (c *Checkout) Review(ctx context.Context) (*ReviewSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	addr, err := c.resolveAddress(ctx)
	if err != nil {
		return nil, err
	}
	if c.mode == PaymentModeCOD && !c.cart.CODAvailable() {
		return nil, errors.New("storefront: cart not eligible for cash on delivery")
	}
	return &ReviewSummary{
		Address:       addr,
		PaymentMode:   c.mode,
		Items:         c.cart.Items(),
		SubtotalPaise: c.cart.Total(),
	}, nil
}

// persistNewAddress appends the draft to the customer's address book.
// It becomes the default only when the book was empty.
func (c *Checkout) persistNewAddress(ctx context.Context, addr Address) {
	user, err := c.client.Me(ctx)
	if err != nil {
		return
	}
	saved := addr
	saved.ID = uuid.NewString()
	saved.IsDefault = len(user.Addresses) == 0
	book := append(append([]Address{}, user.Addresses...), saved)
	if _, err := c.client.UpdateProfile(ctx, UpdateProfileInput{Addresses: book}); err != nil {
		// The order still goes through with the address inline.
		c.notifier.Error("could not save the address to your account")
	}
}

// PlaceOrder submits the order. Cash on delivery places immediately
// and clears the cart; online payment leaves the order pending and
// hands off to the gateway. Checkout state is kept on every failure.
func (c *Checkout) PlaceOrder(ctx context.Context) (*Order, *VerifyResult, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, nil, ErrCheckoutInFlight
	}
	c.inFlight = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	c.mu.Lock()
	mode := c.mode
	selection := c.selection
	addr, err := c.resolveAddress(ctx)
	c.mu.Unlock()
	if err != nil {
		c.notifier.Error("please complete your delivery address")
		return nil, nil, err
	}

	if selection.New != nil && selection.SaveNew {
		c.persistNewAddress(ctx, addr)
	}

	order, err := c.client.PlaceOrder(ctx, PlaceOrderInput{
		PaymentMode:     mode,
		ShippingAddress: addr,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.notifier.Error(apiErr.Message)
		} else {
			c.notifier.Error("could not place your order, please try again")
		}
		return nil, nil, err
	}

	if mode == PaymentModeCOD {
		c.cart.ClearLocal()
		c.notifier.Success("order placed")
		c.navigate("/account/orders")
		return order, nil, nil
	}

	if c.gateway == nil {
		return order, nil, errors.New("storefront: online payment is not configured")
	}
	result, err := c.gateway.Pay(ctx, order.ID, order.TotalPaise, CheckoutOptions{
		Name:          "Elorie",
		Description:   "Order payment",
		ContactNumber: addr.ContactNumber,
	})
	if err != nil || result == nil {
		// Order is pending; the customer can retry from order history.
		return order, nil, err
	}

	c.cart.ClearLocal()
	c.navigate("/account/orders")
	return order, result, nil
}
