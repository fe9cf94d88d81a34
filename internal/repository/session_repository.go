package repository

import (
	"context"
	"fmt"
	"time"

	"DreamEventsAPI/internal/adapter"
)

// SessionRepository tracks revoked tokens in Redis. Sessions themselves are
// stateless JWTs; a logout blacklists the token for its remaining lifetime.
type SessionRepository struct {
	redisAdapter *adapter.RedisAdapter
}

func NewSessionRepository(redisAdapter *adapter.RedisAdapter) *SessionRepository {
	return &SessionRepository{
		redisAdapter: redisAdapter,
	}
}

func (r *SessionRepository) BlacklistToken(ctx context.Context, tokenString string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := fmt.Sprintf("blacklist:%s", tokenString)
	return r.redisAdapter.Set(ctx, key, "revoked", ttl)
}

func (r *SessionRepository) IsTokenBlacklisted(ctx context.Context, tokenString string) bool {
	key := fmt.Sprintf("blacklist:%s", tokenString)
	val, err := r.redisAdapter.Get(ctx, key)
	return err == nil && val != ""
}
