package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const darajaTokenKey = "mpesa:daraja:access_token"

// DarajaTokenStore caches Daraja OAuth access tokens in Redis so restarts
// and multiple instances share one token instead of hammering the auth
// endpoint.
type DarajaTokenStore struct {
	client *redis.Client
}

// NewDarajaTokenStore creates a new DarajaTokenStore instance.
func NewDarajaTokenStore(client *redis.Client) *DarajaTokenStore {
	return &DarajaTokenStore{client: client}
}

// Get returns the cached token, or "" if none is cached.
func (s *DarajaTokenStore) Get(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, darajaTokenKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to get daraja token: %w", err)
	}
	return val, nil
}

// Save caches the token until ttl elapses. Callers pass a ttl slightly
// shorter than the token's real lifetime.
func (s *DarajaTokenStore) Save(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, darajaTokenKey, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save daraja token: %w", err)
	}
	return nil
}
