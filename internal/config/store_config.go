package config

import "strings"

type StoreBackend string

const (
	StoreMemory    StoreBackend = "memory"
	StoreFirestore StoreBackend = "firestore"
	StoreRedis     StoreBackend = "redis"
)

type IdentityProvider string

const (
	IdentityLocal    IdentityProvider = "local"
	IdentityFirebase IdentityProvider = "firebase"
)

type Store struct {
	backend               StoreBackend
	firebaseProjectID     string
	firebaseCredentialsFn string
	redisAddr             string
	redisPassword         string
}

var _ StoreConfig = Store{}

func loadStore() Store {
	return Store{
		backend:               StoreBackend(strings.ToLower(GetEnv("STORE_BACKEND", string(StoreMemory)))),
		firebaseProjectID:     GetEnv("FIREBASE_PROJECT_ID", ""),
		firebaseCredentialsFn: GetEnv("FIREBASE_CREDENTIALS_FILE", ""),
		redisAddr:             GetEnv("REDIS_ADDR", ""),
		redisPassword:         GetEnv("REDIS_PASSWORD", ""),
	}
}

// GetStoreBackend selects where session records live. Projects, assets and local
// users use Firestore whenever a Firebase project id is configured.
func (s Store) GetStoreBackend() StoreBackend {
	return s.backend
}

func (s Store) GetFirebaseProjectID() string {
	return s.firebaseProjectID
}

func (s Store) GetFirebaseCredentialsFile() string {
	return s.firebaseCredentialsFn
}

func (s Store) GetRedisAddr() string {
	return s.redisAddr
}

func (s Store) GetRedisPassword() string {
	return s.redisPassword
}

type Identity struct {
	provider       IdentityProvider
	firebaseAPIKey string
	oidcIssuer     string
	oidcClientID   string
}

var _ IdentityConfig = Identity{}

func loadIdentity() Identity {
	id := Identity{
		provider:       IdentityProvider(strings.ToLower(GetEnv("IDENTITY_PROVIDER", string(IdentityLocal)))),
		firebaseAPIKey: GetEnv("FIREBASE_API_KEY", ""),
		oidcIssuer:     GetEnv("OIDC_ISSUER", ""),
		oidcClientID:   GetEnv("OIDC_CLIENT_ID", ""),
	}
	// Firebase ID tokens are issued by the project's securetoken issuer with the
	// project id as audience.
	if projectID := GetEnv("FIREBASE_PROJECT_ID", ""); projectID != "" && id.provider == IdentityFirebase {
		if id.oidcIssuer == "" {
			id.oidcIssuer = "https://securetoken.google.com/" + projectID
		}
		if id.oidcClientID == "" {
			id.oidcClientID = projectID
		}
	}
	return id
}

func (i Identity) GetIdentityProvider() IdentityProvider {
	return i.provider
}

func (i Identity) GetFirebaseAPIKey() string {
	return i.firebaseAPIKey
}

// GetOIDCIssuer is empty when third-party sign-in is disabled.
func (i Identity) GetOIDCIssuer() string {
	return i.oidcIssuer
}

func (i Identity) GetOIDCClientID() string {
	return i.oidcClientID
}
