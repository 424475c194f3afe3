package shortlink

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MagnunAVF/clicklink/internal"
	"github.com/MagnunAVF/clicklink/internal/apperror"
	"github.com/MagnunAVF/clicklink/internal/cache"
	"github.com/MagnunAVF/clicklink/internal/store"
	"github.com/MagnunAVF/clicklink/internal/store/mocks"
	"github.com/MagnunAVF/clicklink/internal/store/storetest"
)

var testConfig = Config{
	AppDomain:    "http://localhost:8080/",
	ShortCodeTTL: time.Hour,
	ClicksTTL:    24 * time.Hour,
}

func setup(t *testing.T) (*Resolver, *store.Gorm, *cache.Memory) {
	t.Helper()
	repo := storetest.New(t)
	c := cache.NewMemory()
	return NewResolver(repo, c, testConfig), repo, c
}

func cachedClicks(t *testing.T, c cache.Cache, code string) string {
	t.Helper()
	v, err := c.Get(context.Background(), cache.ClicksKey(code))
	require.NoError(t, err)
	return v
}

func TestRegisterAndResolve_AnonymousScenario(t *testing.T) {
	r, _, c := setup(t)
	ctx := context.Background()

	code, err := r.Register(ctx, "https://example.com/", nil)
	require.NoError(t, err)
	assert.Equal(t, "1", code)
	assert.Equal(t, "http://localhost:8080/urls/get-url/1", r.ShortURL(code))

	redirect, err := r.Resolve(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", redirect.URL)
	assert.Equal(t, http.StatusTemporaryRedirect, redirect.Status)
	assert.Equal(t, "1", cachedClicks(t, c, code))
}

func TestRegister_InitialState(t *testing.T) {
	r, repo, c := setup(t)
	ctx := context.Background()
	owner := uuid.New()

	code, err := r.Register(ctx, "https://example.com/docs", &owner)
	require.NoError(t, err)

	u, err := repo.URLByShortCode(ctx, code)
	require.NoError(t, err)
	assert.Zero(t, u.Clicks)
	assert.Equal(t, owner, *u.UserID)

	target, err := c.Get(ctx, cache.RedirectKey(code))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs", target)
	assert.Equal(t, "0", cachedClicks(t, c, code))

	dirty, err := c.SIsMember(ctx, cache.DirtyClicksKey, code)
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestResolve_CachedCountsOnlyInCache(t *testing.T) {
	r, repo, c := setup(t)
	ctx := context.Background()

	code, err := r.Register(ctx, "https://example.com/", nil)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		_, err := r.Resolve(ctx, code)
		require.NoError(t, err)
	}

	assert.Equal(t, "20", cachedClicks(t, c, code))

	u, err := repo.URLByShortCode(ctx, code)
	require.NoError(t, err)
	assert.Zero(t, u.Clicks)

	dirty, err := c.SIsMember(ctx, cache.DirtyClicksKey, code)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestResolve_MissSeedsFromDurableCount(t *testing.T) {
	r, repo, c := setup(t)
	ctx := context.Background()

	code, err := r.Register(ctx, "https://example.com/", nil)
	require.NoError(t, err)
	require.NoError(t, repo.SetClicks(ctx, code, 5))
	require.NoError(t, c.Del(ctx, cache.RedirectKey(code), cache.ClicksKey(code)))

	redirect, err := r.Resolve(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", redirect.URL)
	assert.Equal(t, "6", cachedClicks(t, c, code))

	target, err := c.Get(ctx, cache.RedirectKey(code))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", target)

	dirty, err := c.SIsMember(ctx, cache.DirtyClicksKey, code)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestResolve_MissKeepsUnsyncedCounter(t *testing.T) {
	r, _, c := setup(t)
	ctx := context.Background()

	code, err := r.Register(ctx, "https://example.com/", nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := r.Resolve(ctx, code)
		require.NoError(t, err)
	}
	require.NoError(t, c.Del(ctx, cache.RedirectKey(code)))

	_, err = r.Resolve(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "4", cachedClicks(t, c, code))
}

func TestResolve_NotFound(t *testing.T) {
	r, _, c := setup(t)

	_, err := r.Resolve(context.Background(), "zzz")
	assert.ErrorIs(t, err, apperror.ErrURLNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = c.Get(context.Background(), cache.ClicksKey("zzz"))
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestResolve_NonCanonicalCodeIsNotFound(t *testing.T) {
	r, _, c := setup(t)
	ctx := context.Background()

	code, err := r.Register(ctx, "https://example.com/", nil)
	require.NoError(t, err)
	require.Equal(t, "1", code)

	for _, alias := range []string{"01", "001", "1-", "10000000000a"} {
		_, err := r.Resolve(ctx, alias)
		assert.ErrorIs(t, err, apperror.ErrURLNotFound, "code %q", alias)
	}
	assert.Equal(t, "0", cachedClicks(t, c, code))
}

func TestRegister_RejectsInvalidURL(t *testing.T) {
	r, repo, _ := setup(t)
	ctx := context.Background()

	for _, raw := range []string{
		"",
		"not a url",
		"/relative/path",
		"ftp://example.com/file",
		"https://",
		"https://example.com/" + strings.Repeat("a", MaxURLLength),
	} {
		_, err := r.Register(ctx, raw, nil)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err), "url %q", raw)
	}

	_, err := repo.URLByID(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegister_InsertFailureLeavesCacheUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	c := cache.NewMemory()
	r := NewResolver(repo, c, testConfig)
	ctx := context.Background()

	repo.EXPECT().Transaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(store.Repository) error) error {
			return fn(repo)
		})
	repo.EXPECT().CreateURL(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down"))

	_, err := r.Register(ctx, "https://example.com/", nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.Equal(t, "An unexpected error occurred", apperror.From(err).PublicMessage())

	_, err = c.Get(ctx, cache.RedirectKey("1"))
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestRegister_CacheStaysEmptyUntilCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	c := cache.NewMemory()
	r := NewResolver(repo, c, testConfig)
	ctx := context.Background()

	repo.EXPECT().Transaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(store.Repository) error) error {
			if err := fn(repo); err != nil {
				return err
			}
			_, err := c.Get(ctx, cache.RedirectKey("7"))
			assert.ErrorIs(t, err, cache.ErrMiss, "redirect cached before commit")
			return errors.New("commit failed")
		})
	repo.EXPECT().CreateURL(gomock.Any(), internal.URL{LongURL: "https://example.com/"}).Return(int64(7), nil)
	repo.EXPECT().SetShortCode(gomock.Any(), int64(7), "7").Return(nil)

	_, err := r.Register(ctx, "https://example.com/", nil)
	require.Error(t, err)

	_, err = c.Get(ctx, cache.RedirectKey("7"))
	assert.ErrorIs(t, err, cache.ErrMiss)
	_, err = c.Get(ctx, cache.ClicksKey("7"))
	assert.ErrorIs(t, err, cache.ErrMiss)
	dirty, err := c.SIsMember(ctx, cache.DirtyClicksKey, "7")
	require.NoError(t, err)
	assert.False(t, dirty)
}

// failingCounterSet rejects writes to click counters.
type failingCounterSet struct {
	*cache.Memory
}

func (f failingCounterSet) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if strings.HasPrefix(key, "clicks:") {
		return errors.New("OOM command not allowed")
	}
	return f.Memory.Set(ctx, key, value, ttl)
}

func TestRegister_CacheFailureAfterCommit(t *testing.T) {
	repo := storetest.New(t)
	mem := cache.NewMemory()
	ctx := context.Background()

	code, err := NewResolver(repo, failingCounterSet{mem}, testConfig).Register(ctx, "https://example.com/", nil)
	require.NoError(t, err)

	_, err = mem.Get(ctx, cache.RedirectKey(code))
	assert.ErrorIs(t, err, cache.ErrMiss, "partial cache entries are evicted")

	redirect, err := NewResolver(repo, mem, testConfig).Resolve(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", redirect.URL)
	assert.Equal(t, "1", cachedClicks(t, mem, code))
}

type failingIncr struct {
	*cache.Memory
}

func (failingIncr) IncrIfPresent(context.Context, string) (int64, bool, error) {
	return 0, false, errors.New("redis: connection refused")
}

func TestResolve_CacheFailureIsInternal(t *testing.T) {
	repo := storetest.New(t)
	mem := cache.NewMemory()
	ctx := context.Background()

	code, err := NewResolver(repo, mem, testConfig).Register(ctx, "https://example.com/", nil)
	require.NoError(t, err)

	_, err = NewResolver(repo, failingIncr{mem}, testConfig).Resolve(ctx, code)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func setupRedis(t *testing.T) (*Resolver, *store.Gorm, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	repo := storetest.New(t)
	return NewResolver(repo, c, testConfig), repo, mr
}

func TestResolve_MissRefreshesCounterExpiry(t *testing.T) {
	r, _, mr := setupRedis(t)
	ctx := context.Background()

	code, err := r.Register(ctx, "https://example.com/", nil)
	require.NoError(t, err)

	mr.FastForward(90 * time.Minute)
	require.False(t, mr.Exists(cache.RedirectKey(code)))

	_, err = r.Resolve(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, testConfig.ClicksTTL, mr.TTL(cache.ClicksKey(code)))
	assert.Equal(t, testConfig.ShortCodeTTL, mr.TTL(cache.RedirectKey(code)))

	// Past the counter's first expiry; the miss above pushed it back.
	mr.FastForward(23 * time.Hour)
	v, err := mr.Get(cache.ClicksKey(code))
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestResolve_HitWithLostCounterReseeds(t *testing.T) {
	r, repo, mr := setupRedis(t)
	ctx := context.Background()

	code, err := r.Register(ctx, "https://example.com/", nil)
	require.NoError(t, err)
	require.NoError(t, repo.SetClicks(ctx, code, 28))
	mr.Del(cache.ClicksKey(code))

	redirect, err := r.Resolve(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", redirect.URL)

	v, err := mr.Get(cache.ClicksKey(code))
	require.NoError(t, err)
	assert.Equal(t, "29", v)
	assert.Equal(t, testConfig.ClicksTTL, mr.TTL(cache.ClicksKey(code)))

	dirty, err := mr.SIsMember(cache.DirtyClicksKey, code)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestListOwned(t *testing.T) {
	r, _, _ := setup(t)
	ctx := context.Background()
	owner := uuid.New()

	_, err := r.Register(ctx, "https://a.example/", &owner)
	require.NoError(t, err)
	_, err = r.Register(ctx, "https://anon.example/", nil)
	require.NoError(t, err)
	code, err := r.Register(ctx, "https://b.example/", &owner)
	require.NoError(t, err)

	_, err = r.Resolve(ctx, code)
	require.NoError(t, err)

	urls, err := r.ListOwned(ctx, owner)
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Equal(t, "https://a.example/", urls[0].LongURL)
	assert.Equal(t, code, urls[1].Code())
	assert.Zero(t, urls[1].Clicks, "durable count lags until reconciliation")
}
