package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elorielabs/elorie-backend/internal/users"
	pkgAuth "github.com/elorielabs/elorie-backend/pkg/auth"
	"github.com/elorielabs/elorie-backend/pkg/auth/session"
	"github.com/elorielabs/elorie-backend/pkg/config"
	"github.com/elorielabs/elorie-backend/pkg/db/models"
	"github.com/elorielabs/elorie-backend/pkg/enums"
	pkgerrors "github.com/elorielabs/elorie-backend/pkg/errors"
	"github.com/elorielabs/elorie-backend/pkg/security"
	"github.com/elorielabs/elorie-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	AdminLogin(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, scope enums.AuthScope, sessionID string) error
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update users.ProfileUpdate) (*models.User, error)
}

type sessionManager interface {
	Create(ctx context.Context, scope enums.AuthScope, sessionID string, userID uuid.UUID) error
	Revoke(ctx context.Context, scope enums.AuthScope, sessionID string) error
}

type service struct {
	users       userRepository
	session     sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:       params.UserRepo,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issueToken(ctx, user, enums.AuthScopeCustomer)
}

// AdminLogin mints a token in the admin scope. Regular accounts are
// refused even with valid credentials.
func (s *service) AdminLogin(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return s.issueToken(ctx, user, enums.AuthScopeAdmin)
}

func (s *service) Logout(ctx context.Context, scope enums.AuthScope, sessionID string) error {
	if err := s.session.Revoke(ctx, scope, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issueToken(ctx context.Context, user *models.User, scope enums.AuthScope) (*AuthResponse, error) {
	sessionID := session.NewSessionID()
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Scope:  scope,
		JTI:    sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.session.Create(ctx, scope, sessionID, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	return &AuthResponse{
		Token: token,
		User:  users.FromModel(user),
	}, nil
}

func (s *service) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	input := normalizeUsername(username)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByUsername(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account")
	}
	return users.FromModel(user), nil
}

func (s *service) UpdateMe(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error) {
	update := users.ProfileUpdate{
		Email:    req.Email,
		Phone:    req.Phone,
		FullName: req.FullName,
	}

	if req.Addresses != nil {
		cleaned, err := normalizeAddresses(req.Addresses)
		if err != nil {
			return nil, err
		}
		update.Addresses = cleaned
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return users.FromModel(user), nil
}

// normalizeAddresses validates each address, assigns ids to new ones,
// and enforces the default rules: at most one default; a non-empty
// list always has exactly one, the first entry winning by default.
func normalizeAddresses(list []types.Address) ([]types.Address, error) {
	out := make([]types.Address, 0, len(list))
	defaults := 0
	for i, addr := range list {
		if missing := addr.MissingFields(); len(missing) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is missing required fields").
				WithDetails(map[string]any{"index": i, "missing": missing})
		}
		cleaned := addr.Clean()
		cleaned.ID = strings.TrimSpace(addr.ID)
		if cleaned.ID == "" {
			cleaned.ID = uuid.NewString()
		}
		cleaned.IsDefault = addr.IsDefault
		if cleaned.IsDefault {
			defaults++
		}
		out = append(out, cleaned)
	}
	if defaults > 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only one address may be the default")
	}
	if defaults == 0 && len(out) > 0 {
		out[0].IsDefault = true
	}
	return out, nil
}

func normalizeUsername(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
