// Package shortlink registers short links and serves redirects. The cache is
// the source of truth for click counts between reconciliation runs; the store
// is the source of truth for existence and target URL.
package shortlink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MagnunAVF/clicklink/internal"
	"github.com/MagnunAVF/clicklink/internal/apperror"
	"github.com/MagnunAVF/clicklink/internal/cache"
	"github.com/MagnunAVF/clicklink/internal/logger"
	"github.com/MagnunAVF/clicklink/internal/store"
)

type Config struct {
	AppDomain    string
	ShortCodeTTL time.Duration
	ClicksTTL    time.Duration
}

type Redirect struct {
	URL    string
	Status int
}

type Resolver struct {
	repo  store.Repository
	cache cache.Cache
	cfg   Config
}

func NewResolver(repo store.Repository, c cache.Cache, cfg Config) *Resolver {
	return &Resolver{repo: repo, cache: c, cfg: cfg}
}

// Register stores target and returns its short code. The cache is populated
// only once the row and its code are committed.
func (r *Resolver) Register(ctx context.Context, target string, owner *uuid.UUID) (string, error) {
	if err := ValidateURL(target); err != nil {
		return "", err
	}
	log := logger.FromContext(ctx)

	var code string
	err := r.repo.Transaction(ctx, func(tx store.Repository) error {
		id, err := tx.CreateURL(ctx, internal.URL{UserID: owner, LongURL: target})
		if err != nil {
			return fmt.Errorf("insert url: %w", err)
		}
		code = internal.EncodeID(uint64(id))
		if err := tx.SetShortCode(ctx, id, code); err != nil {
			return fmt.Errorf("set short code: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to create url", "err", err)
		return "", apperror.Internal(err)
	}

	// The link already exists; without cache entries the first redirect
	// takes the miss path and seeds them from the row.
	if err := r.populate(ctx, code, target, 0); err != nil {
		log.Warn("Error populating cache", "short_code", code, "err", err)
		r.evict(ctx, code)
	}

	log.Info("Short url created", "short_code", code)
	return code, nil
}

// Resolve returns the redirect for code and counts the access as a click.
func (r *Resolver) Resolve(ctx context.Context, code string) (Redirect, error) {
	log := logger.FromContext(ctx).With("short_code", code)

	if _, err := internal.DecodeID(code); err != nil || len(code) > internal.MaxCodeLength {
		return Redirect{}, apperror.ErrURLNotFound
	}

	target, err := r.cache.Get(ctx, cache.RedirectKey(code))
	if err == nil {
		counted, err := r.countCached(ctx, code)
		if err != nil {
			log.Error("Error counting click", "err", err)
			return Redirect{}, apperror.Internal(err)
		}
		if counted {
			return Redirect{URL: target, Status: http.StatusTemporaryRedirect}, nil
		}
		// The counter is gone while the redirect entry lives on; rebuild it
		// from the durable row like a miss.
		log.Warn("Click counter missing for cached redirect")
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Error("Error reading cache", "err", err)
		return Redirect{}, apperror.Internal(err)
	}

	u, err := r.repo.URLByShortCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("Short code not found")
		return Redirect{}, apperror.ErrURLNotFound
	}
	if err != nil {
		log.Error("DB error", "err", err)
		return Redirect{}, apperror.Internal(err)
	}

	if err := r.cache.Set(ctx, cache.RedirectKey(code), u.LongURL, r.cfg.ShortCodeTTL); err != nil {
		log.Warn("Error setting cache", "err", err)
	}
	if err := r.countSeeded(ctx, code, u.Clicks); err != nil {
		log.Error("Error counting click", "err", err)
		return Redirect{}, apperror.Internal(err)
	}

	return Redirect{URL: u.LongURL, Status: http.StatusTemporaryRedirect}, nil
}

// ListOwned returns the owner's links. Click counts are the durable ones and
// lag the cache until the next reconciliation run.
func (r *Resolver) ListOwned(ctx context.Context, owner uuid.UUID) ([]internal.URL, error) {
	urls, err := r.repo.URLsByOwner(ctx, owner)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to list urls", "user_id", owner, "err", err)
		return nil, apperror.Internal(err)
	}
	return urls, nil
}

// ShortURL is the absolute URL that redirects to code.
func (r *Resolver) ShortURL(code string) string {
	return strings.TrimRight(r.cfg.AppDomain, "/") + "/urls/get-url/" + code
}

// countCached counts a click on an existing counter. It reports false, and
// writes nothing, when the counter is missing.
func (r *Resolver) countCached(ctx context.Context, code string) (bool, error) {
	_, ok, err := r.cache.IncrIfPresent(ctx, cache.ClicksKey(code))
	if err != nil {
		return false, fmt.Errorf("incr clicks: %w", err)
	}
	if !ok {
		return false, nil
	}
	return true, r.markDirty(ctx, code)
}

// countSeeded counts a click after making sure the counter exists. A counter
// still holding unsynced clicks is kept and its expiry pushed past the
// redirect entry's; a missing one starts from the durable count.
func (r *Resolver) countSeeded(ctx context.Context, code string, durable int64) error {
	key := cache.ClicksKey(code)
	for attempt := 0; attempt < 2; attempt++ {
		seeded, err := r.cache.SetNX(ctx, key, durable, r.cfg.ClicksTTL)
		if err != nil {
			return fmt.Errorf("seed clicks: %w", err)
		}
		if !seeded {
			if err := r.cache.Expire(ctx, key, r.cfg.ClicksTTL); err != nil {
				return fmt.Errorf("refresh clicks ttl: %w", err)
			}
		}
		counted, err := r.countCached(ctx, code)
		if err != nil || counted {
			return err
		}
	}
	return fmt.Errorf("clicks counter for %s keeps disappearing", code)
}

func (r *Resolver) markDirty(ctx context.Context, code string) error {
	if err := r.cache.SAdd(ctx, cache.DirtyClicksKey, code); err != nil {
		return fmt.Errorf("mark dirty: %w", err)
	}
	return nil
}

func (r *Resolver) populate(ctx context.Context, code, target string, clicks int64) error {
	if err := r.cache.Set(ctx, cache.RedirectKey(code), target, r.cfg.ShortCodeTTL); err != nil {
		return fmt.Errorf("cache redirect: %w", err)
	}
	if err := r.cache.Set(ctx, cache.ClicksKey(code), clicks, r.cfg.ClicksTTL); err != nil {
		return fmt.Errorf("cache clicks: %w", err)
	}
	return nil
}

func (r *Resolver) evict(ctx context.Context, code string) {
	if err := r.cache.Del(ctx, cache.RedirectKey(code), cache.ClicksKey(code)); err != nil {
		logger.FromContext(ctx).Warn("Error evicting cache", "short_code", code, "err", err)
	}
}
