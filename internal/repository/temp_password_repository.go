package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const tempPasswordPrefix = "temppw:"

// TempPasswordRepo backs the temporary-password recovery fallback.  The
// passwords live in Redis so they expire on their own and survive across
// instances.
type TempPasswordRepo struct{ RDB *redis.Client }

func NewTempPasswordRepo(rdb *redis.Client) *TempPasswordRepo { return &TempPasswordRepo{RDB: rdb} }

// Issue stores a temporary password for the email with the given TTL,
// replacing any previous one.
func (r *TempPasswordRepo) Issue(ctx context.Context, email, password string, ttl time.Duration) error {
	return r.RDB.Set(ctx, tempPasswordPrefix+email, password, ttl).Err()
}

// Consume deletes and confirms the stored password when it matches.
func (r *TempPasswordRepo) Consume(ctx context.Context, email, password string) (bool, error) {
	return consumeMatch(ctx, r.RDB, tempPasswordPrefix+email, password)
}
