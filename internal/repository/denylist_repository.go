package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "denylist:"

// DenylistRepo persists revoked token identifiers in Redis.  Each entry
// keeps the token's original expiry as its value and carries a TTL that
// ends at that expiry, so entries garbage-collect themselves the moment
// the token would have died naturally anyway.
type DenylistRepo struct{ RDB *redis.Client }

func NewDenylistRepo(rdb *redis.Client) *DenylistRepo { return &DenylistRepo{RDB: rdb} }

// Add records a jti with the token's original expiry.  The write is
// conditional (SET NX): the boolean reports whether this call created the
// entry.  Refresh rotation relies on that to make single-use semantics
// hold even when two requests race on the same token.
func (r *DenylistRepo) Add(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Token already past its expiry; keep the entry briefly so a
		// concurrent verify still sees it.
		ttl = time.Minute
	}
	return r.RDB.SetNX(ctx, denylistPrefix+jti, expiresAt.UTC().Format(time.RFC3339), ttl).Result()
}

// Contains reports whether the jti is currently denylisted.
func (r *DenylistRepo) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := r.RDB.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
