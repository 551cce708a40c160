package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hongminglow/club-finder/internal/storage"
)

var _ storage.Revocations = (*Denylist)(nil)

const keyPrefix = "revoked-token:"

// Denylist keeps signed-out token ids in redis until the token would have expired anyway.
type Denylist struct {
	redis *redis.Client
}

// NewDenylist wraps an existing client.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{redis: client}
}

// Open parses a redis:// url, connects and pings.
func Open(ctx context.Context, url string) (*Denylist, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping denylist storage: %w", err)
	}
	return NewDenylist(client), nil
}

// Close releases the underlying client.
func (d *Denylist) Close() error {
	return d.redis.Close()
}

// Revoke stores the token id with a TTL equal to its remaining lifetime.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := d.redis.Set(ctx, keyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id is on the denylist.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.redis.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
