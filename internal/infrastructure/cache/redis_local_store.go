package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisLocalStore implements LocalStore using Redis.
// Several storefront instances can share session and snapshot state this way.
type RedisLocalStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

const defaultKeyPrefix = "storefront:"

// NewRedisLocalStore connects to Redis and verifies the connection
func NewRedisLocalStore(cfg RedisConfig) (*RedisLocalStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisLocalStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisLocalStoreWithClient creates a store with an existing Redis client
func NewRedisLocalStoreWithClient(client *redis.Client, keyPrefix string) *RedisLocalStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisLocalStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get decodes the value under key into dst
func (s *RedisLocalStore) Get(ctx context.Context, key string, dst any) error {
	data, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return shared.NewNotFoundError(fmt.Sprintf("no local value for %s", key))
	}
	if err != nil {
		return fmt.Errorf("failed to read local value %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode local value %s: %w", key, err)
	}
	return nil
}

// Put stores value under key without expiry
func (s *RedisLocalStore) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode local value %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write local value %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *RedisLocalStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete local value %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisLocalStore) Close() error {
	return s.client.Close()
}

var _ shared.LocalStore = (*RedisLocalStore)(nil)
