package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/elorielabs/elorie-backend/api/responses"
	pkgAuth "github.com/elorielabs/elorie-backend/pkg/auth"
	"github.com/elorielabs/elorie-backend/pkg/auth/session"
	"github.com/elorielabs/elorie-backend/pkg/config"
	"github.com/elorielabs/elorie-backend/pkg/enums"
	pkgerrors "github.com/elorielabs/elorie-backend/pkg/errors"
	"github.com/elorielabs/elorie-backend/pkg/logger"
)

// Auth validates a bearer token for the required scope and seeds the
// request context with the claims. Tokens minted for a different scope
// are rejected with 401, not 403: the caller simply isn't logged in to
// this surface.
func Auth(cfg config.JWTConfig, scope enums.AuthScope, verifier session.Checker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.Scope != scope {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "token scope mismatch"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.Has(r.Context(), claims.Scope, claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxScope, claims.Scope)
			ctx = context.WithValue(ctx, ctxSessionID, claims.ID)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id": claims.UserID.String(),
					"scope":   claims.Scope.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
