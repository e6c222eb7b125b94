package sessions

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/token"
)

// Store persists session records. Lookups by refresh token never use the token
// as a query predicate: the record is fetched by its client id and the stored
// token is compared in constant time.
//
// Not found is an explicit outcome: FindByRefreshToken returns (nil, nil),
// Update, Delete and Revoke return false. Errors are backend failures and
// match errors.ErrStorage.
type Store interface {
	Insert(ctx context.Context, record *StoredSessionRecord) (string, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*StoredSessionRecord, error)
	Update(ctx context.Context, refreshToken, newAccessToken string, newExpiresAtMs int64) (bool, error)
	Delete(ctx context.Context, refreshToken string) (bool, error)
	Revoke(ctx context.Context, clientID string) (bool, error)
}

// Backend is the key-value surface a storage engine implements. Records are keyed
// by client id.
type Backend interface {
	// Create fails with errors.ErrSessionExists if the key is taken.
	Create(ctx context.Context, record *StoredSessionRecord) error
	Get(ctx context.Context, clientID string) (*StoredSessionRecord, error)
	SetAccess(ctx context.Context, clientID, accessToken string, expiresAtMs int64) (bool, error)
	Remove(ctx context.Context, clientID string) (bool, error)
}

// KeyedStore implements Store on top of a Backend.
type KeyedStore struct {
	backend Backend
}

var _ Store = (*KeyedStore)(nil)

func NewKeyedStore(backend Backend) *KeyedStore {
	return &KeyedStore{backend: backend}
}

func (s *KeyedStore) Insert(ctx context.Context, record *StoredSessionRecord) (string, error) {
	if record == nil || record.ClientID == "" || record.UserID == "" || record.RefreshToken == "" {
		return "", fmt.Errorf("%w: record requires user id, client id and refresh token", errors.ErrInvalidRequest)
	}
	if err := s.backend.Create(ctx, record); err != nil {
		return "", err
	}
	return record.ClientID, nil
}

func (s *KeyedStore) FindByRefreshToken(ctx context.Context, refreshToken string) (*StoredSessionRecord, error) {
	clientID, err := token.PeekClientID(refreshToken)
	if err != nil {
		// A token that does not even name a session cannot match a record.
		return nil, nil
	}
	record, err := s.backend.Get(ctx, clientID)
	if err != nil || record == nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(record.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, nil
	}
	return record, nil
}

func (s *KeyedStore) Update(ctx context.Context, refreshToken, newAccessToken string, newExpiresAtMs int64) (bool, error) {
	record, err := s.FindByRefreshToken(ctx, refreshToken)
	if err != nil || record == nil {
		return false, err
	}
	return s.backend.SetAccess(ctx, record.ClientID, newAccessToken, newExpiresAtMs)
}

func (s *KeyedStore) Delete(ctx context.Context, refreshToken string) (bool, error) {
	record, err := s.FindByRefreshToken(ctx, refreshToken)
	if err != nil || record == nil {
		return false, err
	}
	return s.backend.Remove(ctx, record.ClientID)
}

func (s *KeyedStore) Revoke(ctx context.Context, clientID string) (bool, error) {
	if clientID == "" {
		return false, nil
	}
	return s.backend.Remove(ctx, clientID)
}
