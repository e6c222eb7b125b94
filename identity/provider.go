// Package identity verifies credentials and produces the canonical user identity
// that session tokens are minted for.
//
// Providers return identity facts only. Sessions are created by the caller.
package identity

import (
	"context"

	"github.com/youyuhsuan/designare/token"
)

// Provider handles email and password accounts.
//
// Failures are reported with the errors in internal/errors:
// ErrInvalidPassword, ErrUserNotFound, ErrAccountDisabled, ErrEmailInUse,
// ErrInvalidEmail, ErrWeakPassword, ErrTooManyRequests and ErrProviderFailure.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (token.UserIdentity, error)
	SignUp(ctx context.Context, email, username, password string) (token.UserIdentity, error)
	SendPasswordReset(ctx context.Context, email string) error
}

// IDTokenVerifier turns a third-party ID token into a user identity. An invalid
// token fails with ErrInvalidIDToken; a valid token whose account cannot be
// resolved fails with ErrUserNotFound.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, rawIDToken string) (token.UserIdentity, error)
}
