package cache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type set map[string]struct{}

// Memory is an in-process Cache for single-instance deployments and tests.
// go-cache handles expiry; mu makes the compound operations atomic.
type Memory struct {
	mu sync.Mutex
	c  *gocache.Cache
}

func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.c.Get(key)
	if !ok {
		return "", ErrMiss
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("cache: key %q holds a set", key)
	}
	return s, nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.c.Set(key, fmt.Sprint(value), expiry(ttl))
	return nil
}

func (m *Memory) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.c.Add(key, fmt.Sprint(value), expiry(ttl)); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}

func (m *Memory) DelIfEqual(_ context.Context, key, expected string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.c.Get(key)
	if !ok || v != expected {
		return false, nil
	}
	m.c.Delete(key)
	return true, nil
}

func (m *Memory) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.c.Get(key); ok {
		m.c.Set(key, v, expiry(ttl))
	}
	return nil
}

func (m *Memory) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok, err := m.incr(key)
	if err != nil || ok {
		return n, err
	}
	m.c.Set(key, "1", gocache.NoExpiration)
	return 1, nil
}

func (m *Memory) IncrIfPresent(_ context.Context, key string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.incr(key)
}

// incr must be called with mu held. It leaves missing keys alone.
func (m *Memory) incr(key string) (int64, bool, error) {
	v, exp, ok := m.c.GetWithExpiration(key)
	if !ok {
		return 0, false, nil
	}
	s, isString := v.(string)
	if !isString {
		return 0, false, fmt.Errorf("cache: key %q holds a set", key)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("cache: key %q is not an integer", key)
	}
	n++

	ttl := gocache.NoExpiration
	if !exp.IsZero() {
		ttl = time.Until(exp)
		if ttl <= 0 {
			ttl = time.Nanosecond
		}
	}
	m.c.Set(key, strconv.FormatInt(n, 10), ttl)
	return n, true, nil
}

func (m *Memory) SAdd(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.set(key)
	if err != nil {
		return err
	}
	if s == nil {
		s = set{}
		m.c.Set(key, s, gocache.NoExpiration)
	}
	s[member] = struct{}{}
	return nil
}

func (m *Memory) SRem(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.set(key)
	if err != nil || s == nil {
		return err
	}
	for _, member := range members {
		delete(s, member)
	}
	return nil
}

func (m *Memory) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.set(key)
	if err != nil {
		return nil, err
	}
	members := make([]string, 0, len(s))
	for member := range s {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

func (m *Memory) SIsMember(_ context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.set(key)
	if err != nil {
		return false, err
	}
	_, ok := s[member]
	return ok, nil
}

func (m *Memory) SRemIfEqual(_ context.Context, key, member, counterKey string, expected int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.c.Get(counterKey)
	if !ok || v != strconv.FormatInt(expected, 10) {
		return false, nil
	}
	s, err := m.set(key)
	if err != nil || s == nil {
		return false, err
	}
	if _, ok := s[member]; !ok {
		return false, nil
	}
	delete(s, member)
	return true, nil
}

func (m *Memory) SRemIfMissing(_ context.Context, key, member, counterKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.c.Get(counterKey); ok {
		return false, nil
	}
	s, err := m.set(key)
	if err != nil || s == nil {
		return false, err
	}
	if _, ok := s[member]; !ok {
		return false, nil
	}
	delete(s, member)
	return true, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}

// set must be called with mu held. A missing key yields a nil set.
func (m *Memory) set(key string) (set, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, nil
	}
	s, ok := v.(set)
	if !ok {
		return nil, fmt.Errorf("cache: key %q is not a set", key)
	}
	return s, nil
}

func expiry(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}
