package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/elorielabs/elorie-backend/internal/users"
	"github.com/elorielabs/elorie-backend/pkg/enums"
	pkgerrors "github.com/elorielabs/elorie-backend/pkg/errors"
	"github.com/elorielabs/elorie-backend/pkg/security"
	"gorm.io/gorm"
)

// Register creates a customer account and signs it in immediately.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	username := normalizeUsername(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Username:     username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		FullName:     strings.TrimSpace(req.FullName),
	})
	if err != nil {
		// Unique index race: two registrations for the same name.
		if isDuplicateErr(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issueToken(ctx, user, enums.AuthScopeCustomer)
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate") ||
		strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
