package sessions

import (
	"context"
	"fmt"
	"sync"

	"github.com/youyuhsuan/designare/internal/errors"
)

var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend keeps records in process memory. It is the default backend for
// local development and tests.
type MemoryBackend struct {
	records map[string]*StoredSessionRecord
	lock    sync.RWMutex
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[string]*StoredSessionRecord),
	}
}

// NewMemoryStore is a Store over a fresh MemoryBackend.
func NewMemoryStore() *KeyedStore {
	return NewKeyedStore(NewMemoryBackend())
}

func (m *MemoryBackend) Create(_ context.Context, record *StoredSessionRecord) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.records[record.ClientID]; ok {
		return fmt.Errorf("%w: client %s", errors.ErrSessionExists, record.ClientID)
	}
	m.records[record.ClientID] = record.clone()
	return nil
}

func (m *MemoryBackend) Get(_ context.Context, clientID string) (*StoredSessionRecord, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	record, ok := m.records[clientID]
	if !ok {
		return nil, nil
	}
	return record.clone(), nil
}

func (m *MemoryBackend) SetAccess(_ context.Context, clientID, accessToken string, expiresAtMs int64) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	record, ok := m.records[clientID]
	if !ok {
		return false, nil
	}
	record.AccessToken = accessToken
	record.ExpiresAt = expiresAtMs
	return true, nil
}

func (m *MemoryBackend) Remove(_ context.Context, clientID string) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.records[clientID]; !ok {
		return false, nil
	}
	delete(m.records, clientID)
	return true, nil
}

// Len reports the number of stored records.
func (m *MemoryBackend) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.records)
}
