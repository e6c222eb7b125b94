package server

import (
	"context"
	"net/http"

	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyClaims stores the verified access token claims
	ContextKeyClaims ContextKey = "claims"
)

var accessRules = []statusRule{
	{errors.ErrUnauthenticated, http.StatusUnauthorized, "No token found"},
	{errors.ErrInvalidCredential, http.StatusUnauthorized, "Token is not valid"},
	{errors.ErrExpired, http.StatusUnauthorized, "Token is not valid"},
	{errors.ErrMalformedPayload, http.StatusUnauthorized, "Token is not valid"},
}

// RequireSession validates the access token carried in the session cookie and
// stores its claims in the request context.
func (s *Server) RequireSession() middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			bundle, err := readSessionCookie(r)
			if err != nil {
				s.fail(w, r, err, accessRules, "internal server error")
				return
			}
			claims, err := s.deps.Access.VerifyAccess(bundle.Token.AccessToken)
			if err != nil {
				s.fail(w, r, err, accessRules, "internal server error")
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// ClaimsFromContext returns the claims stored by RequireSession.
func ClaimsFromContext(ctx context.Context) (*token.AccessClaims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*token.AccessClaims)
	return claims, ok && claims != nil
}
