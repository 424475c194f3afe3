// Package cache is the fast key-value tier: redirect entries, click counters,
// the dirty set and password-change markers live here.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrMiss = errors.New("cache: key not found")

// Cache is the contract the services rely on. Incr, SetNX and the set
// operations must be atomic in every implementation.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores value; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	// DelIfEqual deletes key only while it still holds expected.
	DelIfEqual(ctx context.Context, key, expected string) (bool, error)
	// Expire resets the expiry of an existing key; missing keys are ignored.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// Incr creates missing keys at 0 before incrementing and keeps an
	// existing expiry.
	Incr(ctx context.Context, key string) (int64, error)
	// IncrIfPresent increments key only when it exists and keeps its expiry.
	// ok is false, and nothing is written, for a missing key.
	IncrIfPresent(ctx context.Context, key string) (n int64, ok bool, err error)

	SAdd(ctx context.Context, set, member string) error
	SRem(ctx context.Context, set string, members ...string) error
	SMembers(ctx context.Context, set string) ([]string, error)
	SIsMember(ctx context.Context, set, member string) (bool, error)
	// SRemIfEqual removes member from set only while the integer at key
	// still equals expected, in one atomic step.
	SRemIfEqual(ctx context.Context, set, member, key string, expected int64) (bool, error)
	// SRemIfMissing removes member from set only while key does not exist.
	SRemIfMissing(ctx context.Context, set, member, key string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

const (
	DirtyClicksKey   = "dirty_clicks"
	ReconcileLockKey = "reconcile:lock"
)

func RedirectKey(shortCode string) string {
	return shortCode
}

func ClicksKey(shortCode string) string {
	return "clicks:" + shortCode
}

func PasswordChangedKey(userID uuid.UUID) string {
	return "user:password_changed:" + userID.String()
}
