package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/youyuhsuan/designare/internal/errors"
)

// Signer is an interface for signing and verifying JWT tokens
type Signer interface {
	// Sign creates a signed JWT token from claims
	Sign(claims jwt.Claims) (string, error)

	// GetVerificationKey is the jwt.Keyfunc used when parsing tokens
	GetVerificationKey(token *jwt.Token) (any, error)

	// GetSigningMethod returns the JWT signing method used
	GetSigningMethod() jwt.SigningMethod
}

// HMACSigner implements Signer with a symmetric key and a single pinned HMAC algorithm.
type HMACSigner struct {
	method jwt.SigningMethod
	secret []byte
}

// NewHMACSigner creates a new HMAC signer. A nil method or empty secret produces a
// signer whose Sign always fails with ErrSigning.
func NewHMACSigner(method jwt.SigningMethod, secret []byte) *HMACSigner {
	return &HMACSigner{
		method: method,
		secret: secret,
	}
}

func (h *HMACSigner) Sign(claims jwt.Claims) (string, error) {
	if h.method == nil {
		return "", fmt.Errorf("%w: signing algorithm is not configured", errors.ErrSigning)
	}
	if len(h.secret) == 0 {
		return "", fmt.Errorf("%w: signing key is not configured", errors.ErrSigning)
	}
	signedToken, err := jwt.NewWithClaims(h.method, claims).SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrSigning, err)
	}
	return signedToken, nil
}

func (h *HMACSigner) GetVerificationKey(token *jwt.Token) (any, error) {
	if h.method == nil || token.Method.Alg() != h.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}

func (h *HMACSigner) GetSigningMethod() jwt.SigningMethod {
	return h.method
}
