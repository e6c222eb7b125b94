package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/youyuhsuan/designare/internal/config"
	"github.com/youyuhsuan/designare/internal/errors"
)

// Verifier checks signature, algorithm and expiry of tokens minted by Issuer.
type Verifier struct {
	signer    Signer
	clockSkew time.Duration
	nowFunc   func() time.Time
}

type VerifierOption func(*Verifier)

func WithVerifierNowFunc(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.nowFunc = now
	}
}

func WithVerifierSigner(signer Signer) VerifierOption {
	return func(v *Verifier) {
		v.signer = signer
	}
}

func NewVerifier(cfg config.TokenConfig, options ...VerifierOption) *Verifier {
	v := &Verifier{
		signer:    NewHMACSigner(cfg.GetSigningMethod(), cfg.GetSigningKey()),
		clockSkew: cfg.GetClockSkew(),
		nowFunc:   time.Now,
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// VerifyAccess returns the claims of a valid access token.
func (v *Verifier) VerifyAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := v.parse(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh returns the claims of a valid refresh token.
func (v *Verifier) VerifyRefresh(raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := v.parse(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (v *Verifier) parse(raw string, claims jwt.Claims) error {
	if raw == "" {
		return fmt.Errorf("%w: empty token", errors.ErrMalformedPayload)
	}
	method := v.signer.GetSigningMethod()
	if method == nil {
		return fmt.Errorf("%w: signing algorithm is not configured", errors.ErrInvalidCredential)
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.nowFunc),
	)
	if _, err := parser.ParseWithClaims(raw, claims, v.signer.GetVerificationKey); err != nil {
		return mapParseError(err)
	}
	return nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, errors.ErrMalformedPayload):
		return fmt.Errorf("%w: %w", errors.ErrMalformedPayload, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", errors.ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %w", errors.ErrMalformedPayload, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", errors.ErrExpired, err)
	default:
		return fmt.Errorf("%w: %w", errors.ErrInvalidCredential, err)
	}
}

// PeekClientID reads the clientId claim of a refresh token without verifying it.
// The result only selects which stored record to compare against.
func PeekClientID(raw string) (string, error) {
	claims := &RefreshClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrMalformedPayload, err)
	}
	if claims.ClientID == "" {
		return "", fmt.Errorf("%w: missing clientId", errors.ErrMalformedPayload)
	}
	return claims.ClientID, nil
}
