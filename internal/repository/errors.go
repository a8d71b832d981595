// Package repository provides data access for the MySQL-backed catalog
// (users, songs) and the Redis-backed auth stores (token denylist, OTP,
// temporary passwords).  Sentinel errors let the service layer translate
// storage outcomes into the wire taxonomy without inspecting driver
// errors.
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// ErrEmailExists is returned when an insert collides with the unique
// email index.
var ErrEmailExists = errors.New("email already exists")

// queryTimeout bounds every MySQL round trip.
const queryTimeout = 5 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}
