package models

import (
	"time"

	"github.com/elorielabs/elorie-backend/pkg/types"
	"github.com/google/uuid"
)

// User is a storefront account. Admin accounts share the table and are
// flagged with IsAdmin; tokens minted for them carry the admin scope.
type User struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Username     string          `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Email        string          `gorm:"column:email" json:"email,omitempty"`
	Phone        string          `gorm:"column:phone" json:"phone,omitempty"`
	FullName     string          `gorm:"column:full_name" json:"fullName,omitempty"`
	PasswordHash string          `gorm:"column:password_hash;not null" json:"-"`
	IsAdmin      bool            `gorm:"column:is_admin;not null;default:false" json:"-"`
	Addresses    []types.Address `gorm:"column:addresses;serializer:json" json:"addresses"`
	CreatedAt    time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// DefaultAddress returns the address flagged as default, or the first
// saved address when none is flagged.
func (u *User) DefaultAddress() (types.Address, bool) {
	for _, addr := range u.Addresses {
		if addr.IsDefault {
			return addr, true
		}
	}
	if len(u.Addresses) > 0 {
		return u.Addresses[0], true
	}
	return types.Address{}, false
}
