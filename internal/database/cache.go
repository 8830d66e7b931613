package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

const cacheOpTimeout = 5 * time.Second

// SetJSON stores a JSON-encoded value under key with a TTL.
func SetJSON(client CacheClient, key string, value any, ttl time.Duration) error {
	if client == nil {
		return fmt.Errorf("cache client is nil")
	}

	bytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	cmd := client.B().Set().Key(key).Value(string(bytes)).Ex(ttl).Build()
	if err := client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// GetJSON loads and decodes a value. The second return is false on a miss.
func GetJSON[T any](client CacheClient, key string, out *T) (bool, error) {
	if client == nil {
		return false, fmt.Errorf("cache client is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	raw, err := client.Do(ctx, client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache key %s: %w", key, err)
	}
	return true, nil
}

// Delete removes keys; missing keys are not an error.
func Delete(client CacheClient, keys ...string) error {
	if client == nil || len(keys) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Del().Key(keys...).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// FlushIndex clears an entire logical cache database. Used when a write
// invalidates more keys than are worth enumerating (catalog consolidation).
func FlushIndex(client CacheClient) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		return fmt.Errorf("failed to flush cache index: %w", err)
	}
	return nil
}
