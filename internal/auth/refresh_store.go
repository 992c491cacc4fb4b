package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// refreshTokenKeyPrefix namespaces refresh token keys in the shared store.
const refreshTokenKeyPrefix = "refresh-token:"

// RefreshTokenStore persists at most one active refresh token per user.
// Saving overwrites any previous token, so a login on a second device
// invalidates the refresh token of the first.
type RefreshTokenStore interface {
	// Save stores the token under the user's key with the given lifetime,
	// replacing any existing token. TTL must be positive.
	Save(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error
	// Get returns ErrRefreshTokenNotFound when no token is stored (expired,
	// revoked, or never issued).
	Get(ctx context.Context, userID uuid.UUID) (string, error)
	// Delete removes the stored token. Deleting a missing token is not an
	// error.
	Delete(ctx context.Context, userID uuid.UUID) error
}

// RedisRefreshTokenStore keeps refresh tokens in redis with a TTL matching
// the token lifetime, so expiry needs no sweeper.
type RedisRefreshTokenStore struct {
	client redis.UniversalClient
}

// NewRedisRefreshTokenStore creates a redis-backed refresh token store.
func NewRedisRefreshTokenStore(client redis.UniversalClient) *RedisRefreshTokenStore {
	return &RedisRefreshTokenStore{client: client}
}

func refreshTokenKey(userID uuid.UUID) string {
	return refreshTokenKeyPrefix + userID.String()
}

// Save implements RefreshTokenStore.
func (s *RedisRefreshTokenStore) Save(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrNonPositiveTTL
	}
	if err := s.client.Set(ctx, refreshTokenKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// Get implements RefreshTokenStore.
func (s *RedisRefreshTokenStore) Get(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := s.client.Get(ctx, refreshTokenKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrRefreshTokenNotFound
		}
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	return token, nil
}

// Delete implements RefreshTokenStore.
func (s *RedisRefreshTokenStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, refreshTokenKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}
