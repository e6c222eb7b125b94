package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/youyuhsuan/designare/internal/errors"
)

const redisKeyPrefix = "session:"

var _ Backend = (*RedisBackend)(nil)

// RedisBackend stores each record as a JSON value under session:<clientId>.
// Keys expire with the refresh token lifetime so abandoned sessions age out.
type RedisBackend struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisBackend creates a Redis-backed session backend. A zero ttl keeps keys
// until they are removed.
func NewRedisBackend(client redis.UniversalClient, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (r *RedisBackend) key(clientID string) string {
	return redisKeyPrefix + clientID
}

func (r *RedisBackend) Create(ctx context.Context, record *StoredSessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}
	created, err := r.client.SetNX(ctx, r.key(record.ClientID), data, r.ttl).Result()
	if err != nil {
		return errors.Storagef(err, "redis create %s", record.ClientID)
	}
	if !created {
		return fmt.Errorf("%w: client %s", errors.ErrSessionExists, record.ClientID)
	}
	return nil
}

func (r *RedisBackend) Get(ctx context.Context, clientID string) (*StoredSessionRecord, error) {
	val, err := r.client.Get(ctx, r.key(clientID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Storagef(err, "redis get %s", clientID)
	}

	var record StoredSessionRecord
	if err := json.Unmarshal(val, &record); err != nil {
		return nil, errors.Storagef(err, "redis decode %s", clientID)
	}
	return &record, nil
}

// SetAccess rewrites the value only if the key still exists and keeps its TTL.
// Concurrent refreshes are last-write-wins.
func (r *RedisBackend) SetAccess(ctx context.Context, clientID, accessToken string, expiresAtMs int64) (bool, error) {
	record, err := r.Get(ctx, clientID)
	if err != nil || record == nil {
		return false, err
	}
	record.AccessToken = accessToken
	record.ExpiresAt = expiresAtMs

	data, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("session: failed to marshal: %w", err)
	}
	err = r.client.SetArgs(ctx, r.key(clientID), data, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Storagef(err, "redis update %s", clientID)
	}
	return true, nil
}

func (r *RedisBackend) Remove(ctx context.Context, clientID string) (bool, error) {
	n, err := r.client.Del(ctx, r.key(clientID)).Result()
	if err != nil {
		return false, errors.Storagef(err, "redis delete %s", clientID)
	}
	return n > 0, nil
}
