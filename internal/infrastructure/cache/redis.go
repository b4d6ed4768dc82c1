package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

// Store is the key-value surface shared by Redis and the in-memory store.
// It backs both the transcription job registry and the embedding cache.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Register(ctx context.Context, key string, value string, expiration time.Duration) (bool, string, error)
	Delete(ctx context.Context, key string) error
}

// NewRedisClient creates a Redis client and verifies the connection
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Println("✅ Redis connected successfully")
	return client, nil
}

// RedisStore implements Store on top of a Redis client
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a Redis client as a Store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get retrieves a value by key (returns false when the key is absent)
func (rs *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := rs.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a key-value pair with expiration
func (rs *RedisStore) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return rs.client.Set(ctx, key, value, expiration).Err()
}

// Register stores the value only if the key is absent (SETNX). It reports
// whether this call claimed the key and, when it did not, the existing value.
func (rs *RedisStore) Register(ctx context.Context, key string, value string, expiration time.Duration) (bool, string, error) {
	claimed, err := rs.client.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, "", err
	}
	if claimed {
		return true, value, nil
	}

	existing, err := rs.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// Key expired between SETNX and GET. Treat as a lost claim.
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return false, existing, nil
}

// Delete removes a key
func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	return rs.client.Del(ctx, key).Err()
}
