package auth

import (
	"github.com/elorielabs/elorie-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Scope  enums.AuthScope
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients. Scope
// keeps customer and admin tokens in separate namespaces: a token
// minted for one scope never passes the other scope's middleware.
type AccessTokenClaims struct {
	UserID uuid.UUID       `json:"user_id"`
	Scope  enums.AuthScope `json:"scope"`
	jwt.RegisteredClaims
}
