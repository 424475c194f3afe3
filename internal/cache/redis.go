package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KEYS[1] set, KEYS[2] counter; ARGV[1] member, ARGV[2] expected value.
var sremIfEqual = redis.NewScript(`
if redis.call('GET', KEYS[2]) == ARGV[2] then
	return redis.call('SREM', KEYS[1], ARGV[1])
end
return 0
`)

// KEYS[1] set, KEYS[2] counter; ARGV[1] member.
var sremIfMissing = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 0 then
	return redis.call('SREM', KEYS[1], ARGV[1])
end
return 0
`)

// KEYS[1] key; ARGV[1] expected value.
var delIfEqual = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// KEYS[1] counter. Returns nil for a missing key.
var incrIfPresent = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return redis.call('INCR', KEYS[1])
end
return false
`)

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// DialRedis connects and pings, failing fast on an unreachable server.
func DialRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return NewRedis(rdb), nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return v, err
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, normalizeTTL(ttl)).Err()
}

func (r *Redis) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, value, normalizeTTL(ttl)).Result()
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *Redis) DelIfEqual(ctx context.Context, key, expected string) (bool, error) {
	n, err := delIfEqual.Run(ctx, r.client, []string{key}, expected).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return r.client.Persist(ctx, key).Err()
	}
	return r.client.Expire(ctx, key, ttl).Err()
}

func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *Redis) IncrIfPresent(ctx context.Context, key string) (int64, bool, error) {
	n, err := incrIfPresent.Run(ctx, r.client, []string{key}).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (r *Redis) SAdd(ctx context.Context, set, member string) error {
	return r.client.SAdd(ctx, set, member).Err()
}

func (r *Redis) SRem(ctx context.Context, set string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	return r.client.SRem(ctx, set, args...).Err()
}

func (r *Redis) SMembers(ctx context.Context, set string) ([]string, error) {
	return r.client.SMembers(ctx, set).Result()
}

func (r *Redis) SIsMember(ctx context.Context, set, member string) (bool, error) {
	return r.client.SIsMember(ctx, set, member).Result()
}

func (r *Redis) SRemIfEqual(ctx context.Context, set, member, key string, expected int64) (bool, error) {
	n, err := sremIfEqual.Run(ctx, r.client, []string{set, key}, member, expected).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Redis) SRemIfMissing(ctx context.Context, set, member, key string) (bool, error) {
	n, err := sremIfMissing.Run(ctx, r.client, []string{set, key}, member).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// go-redis treats 0 as "no expiry" and -1 as KEEPTTL.
func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl < 0 {
		return 0
	}
	return ttl
}
