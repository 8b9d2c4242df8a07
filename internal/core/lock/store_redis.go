// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/slate/internal/core/option"
	"github.com/taibuivan/slate/internal/platform/constants"
)

// releaseScript deletes the key only while it still holds the given option id.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore persists one key per resource: slate:lock:{kind}:{resourceID} -> optionID.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore creates a Redis backed [Store]. A zero ttl keeps locks until released.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Key returns the Redis key holding the lock of a resource.
func Key(key option.ResourceKey) string {
	return constants.RedisPrefixLock + string(key.Kind) + ":" + key.ID
}

// Load reads the locked option of a resource.
func (store *RedisStore) Load(context context.Context, key option.ResourceKey) (string, bool, error) {
	optionID, err := store.client.Get(context, Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lock: redis load %s: %w", key, err)
	}
	return optionID, true, nil
}

// Save writes or conditionally clears the lock of a resource.
func (store *RedisStore) Save(context context.Context, key option.ResourceKey, optionID string, locked bool) error {
	if locked {
		if err := store.client.Set(context, Key(key), optionID, store.ttl).Err(); err != nil {
			return fmt.Errorf("lock: redis save %s: %w", key, err)
		}
		return nil
	}

	if err := releaseScript.Run(context, store.client, []string{Key(key)}, optionID).Err(); err != nil {
		return fmt.Errorf("lock: redis release %s: %w", key, err)
	}
	return nil
}
