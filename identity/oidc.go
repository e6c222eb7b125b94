package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/token"
	"github.com/youyuhsuan/designare/users"
)

var _ IDTokenVerifier = (*OIDCVerifier)(nil)

// OIDCVerifier checks ID tokens from an OpenID Connect issuer, for instance
// Firebase Authentication (https://securetoken.google.com/<project>).
//
// With a user repo configured, the subject is linked to a local account: the
// account is created on first sign-in and disabled accounts are refused.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
	issuer   string
	repo     users.UserRepo
	nowFunc  func() time.Time
}

type OIDCOption func(*OIDCVerifier)

// WithUserLinking resolves verified subjects against repo.
func WithUserLinking(repo users.UserRepo) OIDCOption {
	return func(v *OIDCVerifier) {
		v.repo = repo
	}
}

func WithOIDCNowFunc(now func() time.Time) OIDCOption {
	return func(v *OIDCVerifier) {
		v.nowFunc = now
	}
}

// NewOIDCVerifier wraps an already built go-oidc verifier.
func NewOIDCVerifier(issuer string, verifier *oidc.IDTokenVerifier, options ...OIDCOption) *OIDCVerifier {
	v := &OIDCVerifier{
		verifier: verifier,
		issuer:   issuer,
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// DiscoverOIDCVerifier fetches the issuer's discovery document and key set.
func DiscoverOIDCVerifier(ctx context.Context, issuer, clientID string, options ...OIDCOption) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init oidc provider %s: %w", issuer, err)
	}
	verifier := provider.Verifier(&oidc.Config{
		ClientID: clientID,
	})
	return NewOIDCVerifier(issuer, verifier, options...), nil
}

type idTokenClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (v *OIDCVerifier) VerifyIDToken(ctx context.Context, rawIDToken string) (token.UserIdentity, error) {
	if rawIDToken == "" {
		return token.UserIdentity{}, errors.ErrMissingIDToken
	}
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return token.UserIdentity{}, fmt.Errorf("%w: %w", errors.ErrInvalidIDToken, err)
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return token.UserIdentity{}, fmt.Errorf("%w: claims parse failed: %w", errors.ErrInvalidIDToken, err)
	}
	if claims.Subject == "" {
		return token.UserIdentity{}, fmt.Errorf("%w: missing sub", errors.ErrInvalidIDToken)
	}
	if claims.Email == "" {
		return token.UserIdentity{}, fmt.Errorf("%w: no email for subject %s", errors.ErrUserNotFound, claims.Subject)
	}

	log.Debug().
		Str("issuer", idToken.Issuer).
		Bool("email_verified", claims.EmailVerified).
		Int64("expiry_unix", idToken.Expiry.Unix()).
		Msg("oidc id token verified")

	if v.repo == nil {
		user := users.User{ID: claims.Subject, Email: claims.Email, Username: claims.Name, AvatarURL: claims.Picture}
		return user.Identity(), nil
	}
	return v.link(ctx, claims)
}

func (v *OIDCVerifier) link(ctx context.Context, claims idTokenClaims) (token.UserIdentity, error) {
	user, err := v.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		return token.UserIdentity{}, fmt.Errorf("%w: %w", errors.ErrUserNotFound, err)
	}
	if user == nil {
		user, err = v.byEmail(ctx, claims)
		if err != nil {
			return token.UserIdentity{}, err
		}
	}
	if user == nil {
		user = &users.User{
			ID:         claims.Subject,
			Email:      users.NormalizeEmail(claims.Email),
			Username:   claims.Name,
			AvatarURL:  claims.Picture,
			DateJoined: v.nowFunc(),
			Provider:   v.issuer,
		}
		if err := v.repo.Create(ctx, user); err != nil {
			if errors.Is(err, errors.ErrEmailInUse) {
				return token.UserIdentity{}, err
			}
			return token.UserIdentity{}, fmt.Errorf("%w: %w", errors.ErrUserNotFound, err)
		}
	}
	if user.Disabled {
		return token.UserIdentity{}, fmt.Errorf("%w: %s", errors.ErrAccountDisabled, user.Email)
	}
	return user.Identity(), nil
}

// byEmail finds an existing account for the token's email. Only a verified email
// may sign in to an account created by another provider.
func (v *OIDCVerifier) byEmail(ctx context.Context, claims idTokenClaims) (*users.User, error) {
	existing, err := v.repo.GetByEmail(ctx, users.NormalizeEmail(claims.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrUserNotFound, err)
	}
	if existing == nil {
		return nil, nil
	}
	if !claims.EmailVerified {
		return nil, fmt.Errorf("%w: %s is registered with %s", errors.ErrEmailInUse, existing.Email, existing.Provider)
	}
	log.Info().Str("userId", existing.ID).Str("subject", claims.Subject).Msg("third-party sign-in linked to existing account")
	return existing, nil
}
