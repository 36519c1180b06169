package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/authsvc/domain"
)

// TokenDenylistImpl implements domain.TokenDenylist using Redis keys that
// expire together with the revoked token
type TokenDenylistImpl struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewTokenDenylist creates a new Redis-backed denylist
func NewTokenDenylist(client *redis.Client) domain.TokenDenylist {
	return &TokenDenylistImpl{
		client: client,
		prefix: "denylist:",
		now:    time.Now,
	}
}

// Revoke implements domain.TokenDenylist
func (r *TokenDenylistImpl) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		// Already expired; claim validation rejects it anyway
		return nil
	}
	return r.client.Set(ctx, r.prefix+tokenID, 1, ttl).Err()
}

// IsRevoked implements domain.TokenDenylist
func (r *TokenDenylistImpl) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
