package config

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/youyuhsuan/designare/internal/errors"
)

type Config interface {
	EnvConfig
	CorsConfig
	TokenConfig
	CookieConfig
	StoreConfig
	IdentityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetBaseURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// TokenConfig carries the signing key and token lifetimes shared by the issuer,
// verifier and refresh flow.
type TokenConfig interface {
	GetSigningMethod() jwt.SigningMethod
	GetSigningKey() []byte
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetClockSkew() time.Duration
}

type CookieConfig interface {
	GetCookieMaxAge() time.Duration
	GetCookieSecure() bool
	GetRevokeOnLogout() bool
}

type StoreConfig interface {
	GetStoreBackend() StoreBackend
	GetFirebaseProjectID() string
	GetFirebaseCredentialsFile() string
	GetRedisAddr() string
	GetRedisPassword() string
}

type IdentityConfig interface {
	GetIdentityProvider() IdentityProvider
	GetFirebaseAPIKey() string
	GetOIDCIssuer() string
	GetOIDCClientID() string
}

// Settings is the process configuration. It is read from the environment once by
// Load and handed to every component that needs it.
type Settings struct {
	EnvVars
	Cors
	Tokens
	Cookies
	Store
	Identity
}

var _ Config = (*Settings)(nil)

// Load reads the environment into a Settings value and validates it.
func Load() (*Settings, error) {
	s := &Settings{
		EnvVars:  loadEnvVars(),
		Cors:     loadCors(),
		Cookies:  loadCookies(),
		Store:    loadStore(),
		Identity: loadIdentity(),
	}
	tokens, err := loadTokens()
	if err != nil {
		return nil, err
	}
	s.Tokens = tokens
	s.Cookies.secure = s.Cookies.secure || s.EnvVars.env == EnvProduction

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	switch s.Store.backend {
	case StoreMemory:
	case StoreFirestore:
		if s.Store.firebaseProjectID == "" {
			return fmt.Errorf("%w: FIREBASE_PROJECT_ID is required for the firestore store", errors.ErrConfig)
		}
	case StoreRedis:
		if s.Store.redisAddr == "" {
			return fmt.Errorf("%w: REDIS_ADDR is required for the redis store", errors.ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", errors.ErrConfig, s.Store.backend)
	}

	switch s.Identity.provider {
	case IdentityLocal:
	case IdentityFirebase:
		if s.Identity.firebaseAPIKey == "" {
			return fmt.Errorf("%w: FIREBASE_API_KEY is required for the firebase identity provider", errors.ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown IDENTITY_PROVIDER %q", errors.ErrConfig, s.Identity.provider)
	}
	return nil
}
