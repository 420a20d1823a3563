package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/elorielabs/elorie-backend/pkg/config"
	"github.com/elorielabs/elorie-backend/pkg/enums"
	redisclient "github.com/elorielabs/elorie-backend/pkg/redis"
	"github.com/google/uuid"
)

type sessionStore interface {
	StoreSession(ctx context.Context, scope, sessionID, userID string, ttl time.Duration) error
	SessionExists(ctx context.Context, scope, sessionID string) (bool, error)
	RevokeSession(ctx context.Context, scope, sessionID string) error
}

// Manager tracks live sessions in Redis, keyed by the JWT jti. A token
// whose session record is gone is treated as logged out even when its
// signature is still valid.
type Manager struct {
	store sessionStore
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	Has(ctx context.Context, scope enums.AuthScope, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl < accessTTL {
		return nil, fmt.Errorf("session ttl (%s) must cover the access token ttl (%s)", ttl, accessTTL)
	}

	return &Manager{
		store: client,
		ttl:   ttl,
	}, nil
}

// Create records a live session for the freshly minted token.
func (m *Manager) Create(ctx context.Context, scope enums.AuthScope, sessionID string, userID uuid.UUID) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if !scope.IsValid() {
		return fmt.Errorf("invalid auth scope %q", scope)
	}
	return m.store.StoreSession(ctx, scope.String(), sessionID, userID.String(), m.ttl)
}

// Has reports whether the session behind the token is still live.
func (m *Manager) Has(ctx context.Context, scope enums.AuthScope, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, fmt.Errorf("session id is required")
	}
	return m.store.SessionExists(ctx, scope.String(), sessionID)
}

// Revoke deletes the session record; the matching token stops working
// on the next request.
func (m *Manager) Revoke(ctx context.Context, scope enums.AuthScope, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.RevokeSession(ctx, scope.String(), sessionID)
}

// NewSessionID produces the identifier used as both the JWT jti and
// the Redis session key.
func NewSessionID() string {
	return uuid.NewString()
}
