// Package revoke implements the token deny-list consulted after signature
// verification. Logout puts the token's id on the list for the remainder of
// the token's lifetime; once the token would have expired anyway the entry
// lapses on its own.
package revoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/redis/go-redis/v9"
)

// List is the revocation contract. A failure to answer must not be confused
// with "not revoked"; implementations return ErrorUnavailable when the
// backing store cannot be reached.
type List interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const keyPrefix = "revoked:"

// RedisList keeps revoked token ids in Redis with a per-entry TTL.
type RedisList struct {
	client *redis.Client
}

// NewRedisList constructs a RedisList over the given client.
func NewRedisList(client *redis.Client) *RedisList {
	return &RedisList{client: client}
}

// Revoke marks tokenID as revoked for ttl. A non-positive ttl means the
// token is already expired and there is nothing to do.
func (l *RedisList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether tokenID is on the deny-list.
func (l *RedisList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := l.client.Get(ctx, keyPrefix+tokenID).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	return true, nil
}
