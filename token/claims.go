package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/youyuhsuan/designare/internal/errors"
)

// ClaimsVersion is the schema version carried in the "ver" claim. Tokens with a
// different version are rejected as malformed.
const ClaimsVersion = 1

// Values of the "typ" claim. An access token is never accepted where a refresh
// token is expected and the reverse.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// AccessClaims is the fixed claim set of an access token: the flattened user
// identity plus the per-login client id.
type AccessClaims struct {
	Email     string  `json:"email"`
	Username  *string `json:"username"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	ClientID  string  `json:"clientId"`
	Kind      string  `json:"typ"`
	Version   int     `json:"ver"`
	jwt.RegisteredClaims
}

// Validate is called by the jwt parser after the registered claims are checked
// and by the issuer before signing.
func (c AccessClaims) Validate() error {
	if c.Subject == "" {
		return fmt.Errorf("%w: missing sub", errors.ErrMalformedPayload)
	}
	if c.ClientID == "" {
		return fmt.Errorf("%w: missing clientId", errors.ErrMalformedPayload)
	}
	if c.Kind != KindAccess {
		return fmt.Errorf("%w: expected an access token, got typ %q", errors.ErrMalformedPayload, c.Kind)
	}
	if c.Email == "" {
		return fmt.Errorf("%w: missing email", errors.ErrMalformedPayload)
	}
	if c.Version != ClaimsVersion {
		return fmt.Errorf("%w: unsupported claims version %d", errors.ErrMalformedPayload, c.Version)
	}
	return nil
}

// User rebuilds the identity carried by the token.
func (c AccessClaims) User() UserIdentity {
	return UserIdentity{
		SubjectID:   c.Subject,
		Email:       c.Email,
		DisplayName: c.Username,
		AvatarURL:   c.AvatarURL,
	}
}

// RefreshClaims is deliberately minimal: subject and client id only.
type RefreshClaims struct {
	ClientID string `json:"clientId"`
	Kind     string `json:"typ"`
	Version  int    `json:"ver"`
	jwt.RegisteredClaims
}

func (c RefreshClaims) Validate() error {
	if c.Subject == "" {
		return fmt.Errorf("%w: missing sub", errors.ErrMalformedPayload)
	}
	if c.ClientID == "" {
		return fmt.Errorf("%w: missing clientId", errors.ErrMalformedPayload)
	}
	if c.Kind != KindRefresh {
		return fmt.Errorf("%w: expected a refresh token, got typ %q", errors.ErrMalformedPayload, c.Kind)
	}
	if c.Version != ClaimsVersion {
		return fmt.Errorf("%w: unsupported claims version %d", errors.ErrMalformedPayload, c.Version)
	}
	return nil
}
