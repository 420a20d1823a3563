package auth

import (
	"context"
	"testing"

	"github.com/elorielabs/elorie-backend/internal/users"
	"github.com/elorielabs/elorie-backend/pkg/config"
	"github.com/elorielabs/elorie-backend/pkg/db/models"
	"github.com/elorielabs/elorie-backend/pkg/enums"
	pkgerrors "github.com/elorielabs/elorie-backend/pkg/errors"
	"github.com/elorielabs/elorie-backend/pkg/security"
	"github.com/elorielabs/elorie-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func testPasswordCfg() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func testJWTCfg() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "elorie", ExpirationMinutes: 30}
}

type stubUserRepo struct {
	byUsername map[string]*models.User
	byID       map[uuid.UUID]*models.User
	createErr  error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byUsername: map[string]*models.User{},
		byID:       map[uuid.UUID]*models.User{},
	}
}

func (s *stubUserRepo) add(user *models.User) {
	s.byUsername[user.Username] = user
	s.byID[user.ID] = user
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	s.add(user)
	return user, nil
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, update users.ProfileUpdate) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.Addresses != nil {
		user.Addresses = update.Addresses
	}
	return user, nil
}

type stubSessions struct {
	created map[string]enums.AuthScope
	revoked []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{created: map[string]enums.AuthScope{}}
}

func (s *stubSessions) Create(ctx context.Context, scope enums.AuthScope, sessionID string, userID uuid.UUID) error {
	s.created[sessionID] = scope
	return nil
}

func (s *stubSessions) Revoke(ctx context.Context, scope enums.AuthScope, sessionID string) error {
	s.revoked = append(s.revoked, sessionID)
	return nil
}

func newTestService(t *testing.T, repo *stubUserRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTCfg(),
		PasswordConfig: testPasswordCfg(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password string, isAdmin bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	repo.add(user)
	return user
}

func TestRegisterIssuesCustomerToken(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessions()
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: "Priya",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User.Username != "priya" {
		t.Fatalf("username should be normalized, got %q", resp.User.Username)
	}
	if len(sessions.created) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.created))
	}
	for _, scope := range sessions.created {
		if scope != enums.AuthScopeCustomer {
			t.Fatalf("expected customer scope, got %s", scope)
		}
	}
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessions()
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "priya", "pw-irrelevant-123", false)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "priya",
		Password: "another-password",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubSessions())
	seedUser(t, repo, "priya", "right-password-123", false)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "priya", Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), newStubSessions())

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAdminLoginRefusesCustomerAccount(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessions()
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "priya", "right-password-123", false)

	_, err := svc.AdminLogin(context.Background(), LoginRequest{Username: "priya", Password: "right-password-123"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("valid customer creds must not open the admin surface, got %v", err)
	}
	if len(sessions.created) != 0 {
		t.Fatal("no session should be created on refused login")
	}
}

func TestAdminLoginMintsAdminScope(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessions()
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "ops", "right-password-123", true)

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{Username: "ops", Password: "right-password-123"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	for _, scope := range sessions.created {
		if scope != enums.AuthScopeAdmin {
			t.Fatalf("expected admin scope, got %s", scope)
		}
	}
}

func fullAddress(label string, isDefault bool) types.Address {
	return types.Address{
		Label:         label,
		Address:       "12 MG Road",
		City:          "Kochi",
		District:      "Ernakulam",
		State:         "Kerala",
		ContactNumber: "9876543210",
		PinCode:       "682001",
		IsDefault:     isDefault,
	}
}

func TestUpdateMeAddressDefaults(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubSessions())
	user := seedUser(t, repo, "priya", "right-password-123", false)

	dto, err := svc.UpdateMe(context.Background(), user.ID, UpdateProfileRequest{
		Addresses: []types.Address{fullAddress("Home", false), fullAddress("Work", false)},
	})
	if err != nil {
		t.Fatalf("update me: %v", err)
	}
	if !dto.Addresses[0].IsDefault {
		t.Fatal("first address should become the default when none is flagged")
	}
	if dto.Addresses[1].IsDefault {
		t.Fatal("only one default allowed")
	}
	if dto.Addresses[0].ID == "" || dto.Addresses[1].ID == "" {
		t.Fatal("new addresses should get ids assigned")
	}
}

func TestUpdateMeRejectsTwoDefaults(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubSessions())
	user := seedUser(t, repo, "priya", "right-password-123", false)

	_, err := svc.UpdateMe(context.Background(), user.ID, UpdateProfileRequest{
		Addresses: []types.Address{fullAddress("Home", true), fullAddress("Work", true)},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateMeRejectsIncompleteAddress(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubSessions())
	user := seedUser(t, repo, "priya", "right-password-123", false)

	addr := fullAddress("Home", false)
	addr.PinCode = ""
	_, err := svc.UpdateMe(context.Background(), user.ID, UpdateProfileRequest{
		Addresses: []types.Address{addr},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := newStubSessions()
	svc := newTestService(t, newStubUserRepo(), sessions)

	if err := svc.Logout(context.Background(), enums.AuthScopeCustomer, "sess-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "sess-1" {
		t.Fatalf("expected session revoked, got %v", sessions.revoked)
	}
}
