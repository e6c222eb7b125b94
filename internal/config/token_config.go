package config

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/youyuhsuan/designare/internal/errors"
)

const (
	tokenAlgVar          = "TOKEN_ALG"
	jwtSecretVar         = "JWT_SECRET"
	accessExpirationVar  = "ACCESS_TOKEN_EXPIRATION"
	refreshExpirationVar = "REFRESH_TOKEN_EXPIRATION"
	clockSkewVar         = "TOKEN_CLOCK_SKEW"

	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
	DefaultClockSkew       = 30 * time.Second
)

// Tokens is the signing configuration. The key is read once and never mutated.
type Tokens struct {
	method     jwt.SigningMethod
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clockSkew  time.Duration
}

var _ TokenConfig = Tokens{}

// NewTokens builds a validated token configuration. It is used by Load and by tests.
func NewTokens(alg string, secret []byte, accessTTL, refreshTTL, clockSkew time.Duration) (Tokens, error) {
	method, err := SigningMethodFor(alg)
	if err != nil {
		return Tokens{}, err
	}
	if len(secret) == 0 {
		return Tokens{}, fmt.Errorf("%w: %s is required", errors.ErrConfig, jwtSecretVar)
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return Tokens{}, fmt.Errorf("%w: token lifetimes must be positive", errors.ErrConfig)
	}
	if refreshTTL <= accessTTL {
		return Tokens{}, fmt.Errorf("%w: refresh token lifetime must exceed access token lifetime", errors.ErrConfig)
	}
	if clockSkew < 0 {
		return Tokens{}, fmt.Errorf("%w: clock skew must not be negative", errors.ErrConfig)
	}
	return Tokens{
		method:     method,
		key:        secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clockSkew:  clockSkew,
	}, nil
}

// SigningMethodFor maps a configured algorithm name to a symmetric jwt signing method.
func SigningMethodFor(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: unsupported %s %q", errors.ErrConfig, tokenAlgVar, alg)
	}
}

func loadTokens() (Tokens, error) {
	accessTTL, err := GetEnvSeconds(accessExpirationVar, DefaultAccessTokenTTL)
	if err != nil {
		return Tokens{}, fmt.Errorf("%w: %w", errors.ErrConfig, err)
	}
	refreshTTL, err := GetEnvSeconds(refreshExpirationVar, DefaultRefreshTokenTTL)
	if err != nil {
		return Tokens{}, fmt.Errorf("%w: %w", errors.ErrConfig, err)
	}
	skew, err := GetEnvSeconds(clockSkewVar, DefaultClockSkew)
	if err != nil {
		return Tokens{}, fmt.Errorf("%w: %w", errors.ErrConfig, err)
	}
	return NewTokens(GetEnv(tokenAlgVar, "HS256"), []byte(GetEnv(jwtSecretVar, "")), accessTTL, refreshTTL, skew)
}

func (t Tokens) GetSigningMethod() jwt.SigningMethod {
	return t.method
}

func (t Tokens) GetSigningKey() []byte {
	return t.key
}

func (t Tokens) GetAccessTokenTTL() time.Duration {
	return t.accessTTL
}

func (t Tokens) GetRefreshTokenTTL() time.Duration {
	return t.refreshTTL
}

func (t Tokens) GetClockSkew() time.Duration {
	return t.clockSkew
}
