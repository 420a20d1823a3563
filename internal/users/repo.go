package users

import (
	"context"

	"github.com/elorielabs/elorie-backend/pkg/db/models"
	"github.com/elorielabs/elorie-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByUsername retrieves the user matching the provided username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries the mutable profile fields. Nil pointers are
// left untouched; Addresses replaces the whole list when non-nil.
type ProfileUpdate struct {
	Email     *string
	Phone     *string
	FullName  *string
	Addresses []types.Address
}

// UpdateProfile applies the profile update and returns the fresh row.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*models.User, error) {
	changes := map[string]any{}
	if update.Email != nil {
		changes["email"] = *update.Email
	}
	if update.Phone != nil {
		changes["phone"] = *update.Phone
	}
	if update.FullName != nil {
		changes["full_name"] = *update.FullName
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(changes).Error; err != nil {
				return err
			}
		}
		if update.Addresses != nil {
			if err := tx.Model(&models.User{}).Where("id = ?", id).
				Update("addresses", update.Addresses).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}
