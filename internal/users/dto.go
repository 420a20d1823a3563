package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/elorielabs/elorie-backend/pkg/db/models"
	"github.com/elorielabs/elorie-backend/pkg/types"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	FullName  string          `json:"fullName,omitempty"`
	Addresses []types.Address `json:"addresses"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	PasswordHash string
	Email        string
	Phone        string
	FullName     string
	IsAdmin      bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	addresses := u.Addresses
	if addresses == nil {
		addresses = []types.Address{}
	}

	return &UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		FullName:  u.FullName,
		Addresses: append([]types.Address(nil), addresses...),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Username:     c.Username,
		PasswordHash: c.PasswordHash,
		Email:        c.Email,
		Phone:        c.Phone,
		FullName:     c.FullName,
		IsAdmin:      c.IsAdmin,
		Addresses:    []types.Address{},
	}
}
