package redis

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
)

// ConfigStore implements ports.ConfigStore using Redis string keys holding JSON.
type ConfigStore struct {
	client *goredis.Client
	prefix string
}

// NewConfigStore creates a new Redis-backed config store.
func NewConfigStore(client *goredis.Client) *ConfigStore {
	return &ConfigStore{
		client: client,
		prefix: "config:",
	}
}

func (s *ConfigStore) key(sanctuary, key string) string {
	return s.prefix + sanctuary + ":" + key
}

// Get decodes the value at (sanctuary, key) into dst.
// Returns false, nil if the key does not exist.
func (s *ConfigStore) Get(ctx context.Context, sanctuary, key string, dst any) (bool, error) {
	val, err := s.client.Get(ctx, s.key(sanctuary, key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis config get: %w", err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("decoding config %s: %w", key, err)
	}
	return true, nil
}

// Put stores value without expiry.
func (s *ConfigStore) Put(ctx context.Context, sanctuary, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding config %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(sanctuary, key), b, 0).Err(); err != nil {
		return fmt.Errorf("redis config set: %w", err)
	}
	return nil
}

// Delete removes the key. Deleting a missing key is not an error.
func (s *ConfigStore) Delete(ctx context.Context, sanctuary, key string) error {
	if err := s.client.Del(ctx, s.key(sanctuary, key)).Err(); err != nil {
		return fmt.Errorf("redis config del: %w", err)
	}
	return nil
}
