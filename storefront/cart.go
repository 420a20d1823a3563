package storefront

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// CartSync keeps a local mirror of the backend cart. The backend is
// authoritative: every mutation round-trips and the mirror is replaced
// wholesale with the returned snapshot. On failure the mirror keeps
// its previous state so nothing the customer sees silently diverges.
type CartSync struct {
	client   *Client
	notifier Notifier
	pending  *PendingStore

	mu       sync.Mutex
	items    []CartItem
	subtotal int
	count    int
	codOK    bool
}

// NewCartSync builds a synchronizer. Notifier and pending store may be
// nil; a nil notifier drops messages, a nil pending store disables
// resume.
func NewCartSync(client *Client, notifier Notifier, pending *PendingStore) *CartSync {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &CartSync{
		client:   client,
		notifier: notifier,
		pending:  pending,
		codOK:    true,
	}
}

func (c *CartSync) apply(snap *CartSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = snap.Items
	c.subtotal = snap.SubtotalPaise
	c.count = snap.ItemCount
	c.codOK = snap.CODAvailable
}

func (c *CartSync) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.subtotal = 0
	c.count = 0
	c.codOK = true
}

// Items returns a copy of the current cart lines.
func (c *CartSync) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total returns the current subtotal in paise.
func (c *CartSync) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotal
}

// ItemCount returns the total unit count across lines.
func (c *CartSync) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// CODAvailable reports whether every line is eligible for cash on
// delivery. An empty cart reports true.
func (c *CartSync) CODAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codOK
}

// Load refreshes the mirror from the backend. Signed-out visitors get
// an empty cart. A fetch failure keeps the stale mirror and surfaces a
// soft warning instead of wiping what the customer sees.
func (c *CartSync) Load(ctx context.Context) error {
	if !c.client.IsAuthenticated() {
		c.reset()
		return nil
	}
	snap, err := c.client.CartFetch(ctx)
	if err != nil {
		c.notifier.Error("could not refresh your cart")
		return err
	}
	c.apply(snap)
	return nil
}

// Add puts a product in the cart.
func (c *CartSync) Add(ctx context.Context, productID uuid.UUID, quantity int) error {
	if !c.client.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	snap, err := c.client.CartAdd(ctx, productID, quantity)
	if err != nil {
		c.notifier.Error("could not add the item to your cart")
		return err
	}
	c.apply(snap)
	return nil
}

// SetQuantity sets an absolute line quantity; below one removes.
func (c *CartSync) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	if !c.client.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	snap, err := c.client.CartSetQuantity(ctx, productID, quantity)
	if err != nil {
		c.notifier.Error("could not update your cart")
		return err
	}
	c.apply(snap)
	return nil
}

// Remove drops a line from the cart.
func (c *CartSync) Remove(ctx context.Context, productID uuid.UUID) error {
	if !c.client.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	snap, err := c.client.CartRemove(ctx, productID)
	if err != nil {
		c.notifier.Error("could not remove the item from your cart")
		return err
	}
	c.apply(snap)
	return nil
}

// Clear empties the cart on the backend and locally.
func (c *CartSync) Clear(ctx context.Context) error {
	if !c.client.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	snap, err := c.client.CartClear(ctx)
	if err != nil {
		c.notifier.Error("could not clear your cart")
		return err
	}
	c.apply(snap)
	return nil
}

// ClearLocal drops the mirror without touching the backend. Used after
// checkout, when the backend has already emptied the cart.
func (c *CartSync) ClearLocal() {
	c.reset()
}

// ResumePending replays an add-to-cart captured before sign-in. It
// returns the route to resume at, or empty when nothing was pending.
// The action is consumed either way; a failed replay is surfaced but
// never retried.
func (c *CartSync) ResumePending(ctx context.Context) (string, error) {
	if c.pending == nil {
		return "", nil
	}
	action := c.pending.Consume()
	if action == nil {
		return "", nil
	}
	if err := c.Add(ctx, action.ProductID, action.Quantity); err != nil {
		return "", err
	}
	c.notifier.Success("item added to your cart")
	return action.ReturnTo, nil
}
