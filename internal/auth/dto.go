package auth

import (
	"github.com/elorielabs/elorie-backend/internal/users"
	"github.com/elorielabs/elorie-backend/pkg/types"
)

// RegisterRequest is the payload for customer sign-up.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=20"`
	FullName string `json:"fullName,omitempty" validate:"omitempty,max=128"`
}

// LoginRequest covers both the customer and admin sign-in surfaces.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the minted token plus the account it belongs to.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// UpdateProfileRequest replaces profile fields. Addresses, when
// present, replaces the entire address list.
type UpdateProfileRequest struct {
	Email     *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string         `json:"phone,omitempty" validate:"omitempty,max=20"`
	FullName  *string         `json:"fullName,omitempty" validate:"omitempty,max=128"`
	Addresses []types.Address `json:"addresses,omitempty" validate:"omitempty,dive"`
}
