package cart

import (
	"github.com/elorielabs/elorie-backend/pkg/db/models"
	"github.com/google/uuid"
)

// AddRequest adds a product to the cart. Quantity defaults to one.
type AddRequest struct {
	ItemID   uuid.UUID `json:"itemId" validate:"required"`
	Quantity int       `json:"quantity,omitempty" validate:"omitempty,gte=1,lte=99"`
}

// QuantityRequest sets an absolute quantity. Values below one remove
// the entry; the handler never errors on them.
type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"lte=99"`
}

// EntryDTO is one cart line in a snapshot.
type EntryDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   *models.Product `json:"product,omitempty"`
}

// Snapshot is the full backend-authoritative cart state. Every
// mutation endpoint responds with one; clients replace local state
// wholesale instead of patching it.
type Snapshot struct {
	ID            uuid.UUID  `json:"id"`
	Items         []EntryDTO `json:"items"`
	ItemCount     int        `json:"itemCount"`
	SubtotalPaise int        `json:"subtotalPaise"`
	CODAvailable  bool       `json:"codAvailable"`
}

func snapshotFrom(userID uuid.UUID, entries []models.CartEntry) *Snapshot {
	snap := &Snapshot{
		ID:           userID,
		Items:        make([]EntryDTO, 0, len(entries)),
		CODAvailable: true,
	}
	for _, entry := range entries {
		snap.Items = append(snap.Items, EntryDTO{
			ID:        entry.ID,
			ProductID: entry.ProductID,
			Quantity:  entry.Quantity,
			Product:   entry.Product,
		})
		snap.ItemCount += entry.Quantity
		if entry.Product != nil {
			snap.SubtotalPaise += entry.Product.PricePaise * entry.Quantity
			if !entry.Product.CODEligible() {
				snap.CODAvailable = false
			}
		}
	}
	return snap
}
