package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/youyuhsuan/designare/internal/config"
)

// Issuer mints access and refresh tokens. It has no side effects; storing the
// result is the caller's job.
type Issuer struct {
	signer     Signer
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowFunc    func() time.Time
}

type IssuerOption func(*Issuer)

// WithIssuerNowFunc overrides the clock, primarily for tests.
func WithIssuerNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

// WithSigner replaces the signer derived from the configuration.
func WithSigner(signer Signer) IssuerOption {
	return func(i *Issuer) {
		i.signer = signer
	}
}

func NewIssuer(cfg config.TokenConfig, options ...IssuerOption) *Issuer {
	i := &Issuer{
		signer:     NewHMACSigner(cfg.GetSigningMethod(), cfg.GetSigningKey()),
		accessTTL:  cfg.GetAccessTokenTTL(),
		refreshTTL: cfg.GetRefreshTokenTTL(),
		nowFunc:    time.Now,
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// AccessTTL is the lifetime reported in TokenPair.ExpiresAt.
func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

// Issue mints a new token pair for the user and the per-login client id.
func (i *Issuer) Issue(user UserIdentity, clientID string) (TokenPair, error) {
	now := i.nowFunc()

	accessToken, err := i.mintAccess(user, clientID, now)
	if err != nil {
		return TokenPair{}, err
	}

	refreshClaims := RefreshClaims{
		ClientID: clientID,
		Kind:     KindRefresh,
		Version:  ClaimsVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.refreshTTL)),
		},
	}
	if err := refreshClaims.Validate(); err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := i.signer.Sign(refreshClaims)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    TokenTypeBearer,
		ExpiresAt:    int64(i.accessTTL / time.Second),
	}, nil
}

// IssueAccess mints an access token only. The refresh flow uses it; refresh
// tokens are never rotated.
func (i *Issuer) IssueAccess(user UserIdentity, clientID string) (string, error) {
	return i.mintAccess(user, clientID, i.nowFunc())
}

func (i *Issuer) mintAccess(user UserIdentity, clientID string, now time.Time) (string, error) {
	claims := AccessClaims{
		Email:     user.Email,
		Username:  user.DisplayName,
		AvatarURL: user.AvatarURL,
		ClientID:  clientID,
		Kind:      KindAccess,
		Version:   ClaimsVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}
	if err := claims.Validate(); err != nil {
		return "", err
	}
	return i.signer.Sign(claims)
}
