package cart

import (
	"context"
	"errors"

	"github.com/elorielabs/elorie-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists server-side cart entries.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns the user's entries with products preloaded,
// oldest first so the cart renders in the order items were added.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindEntry loads the entry for the (user, product) pair.
func (r *Repository) FindEntry(ctx context.Context, userID, productID uuid.UUID) (*models.CartEntry, error) {
	var entry models.CartEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert adds quantity to an existing entry or inserts a new one.
func (r *Repository) Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.CartEntry
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&entry).Error
		switch {
		case err == nil:
			return tx.Model(&entry).Update("quantity", entry.Quantity+quantity).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.CartEntry{
				ID:        uuid.New(),
				UserID:    userID,
				ProductID: productID,
				Quantity:  quantity,
			}).Error
		default:
			return err
		}
	})
}

// SetQuantity overwrites the quantity for the pair.
func (r *Repository) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartEntry{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Remove deletes the entry for the pair. Removing an absent entry is
// not an error; the end state is what the caller asked for.
func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartEntry{}).Error
}

// Clear empties the user's cart.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartEntry{}).Error
}
