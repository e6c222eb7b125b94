package errors

import (
	"errors"
	"fmt"
)

// Session and token errors
var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrInvalidCredential    = errors.New("invalid credential")
	ErrInvalidSignature     = fmt.Errorf("invalid signature: %w", ErrInvalidCredential)
	ErrExpired              = errors.New("token expired")
	ErrMalformedPayload     = errors.New("malformed token payload")
	ErrSigning              = errors.New("token signing failed")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
	ErrSessionRevoked       = errors.New("session revoked")
	ErrSessionRecordMissing = errors.New("session record missing")
	ErrSessionExists        = errors.New("session already exists")
	ErrStorage              = errors.New("storage error")
)

// Identity provider errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrAccountDisabled  = errors.New("account disabled")
	ErrEmailInUse       = errors.New("email already in use")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrWeakPassword     = errors.New("password too weak")
	ErrTooManyRequests  = errors.New("too many requests")
	ErrProviderFailure  = errors.New("identity provider failure")
	ErrUnsupported      = errors.New("unsupported operation")
	ErrInvalidIDToken   = fmt.Errorf("invalid id token: %w", ErrInvalidCredential)
	ErrInvalidPassword  = fmt.Errorf("invalid email or password: %w", ErrInvalidCredential)
	ErrMissingIDToken   = fmt.Errorf("missing id token: %w", ErrUnauthenticated)
	ErrMissingSessionID = fmt.Errorf("missing session: %w", ErrUnauthenticated)
)

// General errors
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrConfig         = errors.New("invalid config")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Storagef wraps a backend failure so that it matches ErrStorage while keeping the cause.
func Storagef(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: "+format+": %w", append(append([]interface{}{ErrStorage}, args...), err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need a single errors import.
func New(text string) error {
	return errors.New(text)
}
