// Package reconcile folds cache-held click counters into the store.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MagnunAVF/clicklink/internal/cache"
	"github.com/MagnunAVF/clicklink/internal/logger"
	"github.com/MagnunAVF/clicklink/internal/store"
)

var (
	ErrRunInProgress = errors.New("reconcile: run already in progress")
	ErrInconsistent  = errors.New("reconcile: dirty short code has no durable record")
)

// Report describes one run. Folded codes had their durable count written;
// Retained is the subset that was clicked again before membership could be
// cleared and stays dirty for the next run.
type Report struct {
	Snapshot int
	Folded   []string
	Retained []string
	Orphaned []string
	Expired  []string
}

type Reconciler struct {
	repo    store.Repository
	cache   cache.Cache
	lockTTL time.Duration

	mu sync.Mutex
}

// New returns a Reconciler. lockTTL bounds how long a crashed run can block
// the next one and must exceed the longest expected run.
func New(repo store.Repository, c cache.Cache, lockTTL time.Duration) *Reconciler {
	return &Reconciler{repo: repo, cache: c, lockTTL: lockTTL}
}

type fold struct {
	code   string
	clicks int64
}

// Run folds every code in the dirty set as of the start of the run. All
// writes share one transaction; on failure nothing is cleared and the next
// run retries.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	if !r.mu.TryLock() {
		return Report{}, ErrRunInProgress
	}
	defer r.mu.Unlock()

	release, err := r.acquire(ctx)
	if err != nil {
		return Report{}, err
	}
	defer release()

	log := logger.FromContext(ctx)
	started := time.Now()

	codes, err := r.cache.SMembers(ctx, cache.DirtyClicksKey)
	if err != nil {
		log.Error("Failed to sync clicks", "stage", "snapshot", "err", err)
		return Report{}, fmt.Errorf("read dirty set: %w", err)
	}
	report := Report{Snapshot: len(codes)}
	if len(codes) == 0 {
		return report, nil
	}

	pending := make([]fold, 0, len(codes))
	for _, code := range codes {
		v, err := r.cache.Get(ctx, cache.ClicksKey(code))
		if errors.Is(err, cache.ErrMiss) {
			report.Expired = append(report.Expired, code)
			continue
		}
		if err != nil {
			log.Error("Failed to sync clicks", "stage", "read counter", "short_code", code, "err", err)
			return report, fmt.Errorf("read counter %s: %w", code, err)
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Error("Failed to sync clicks", "stage", "read counter", "short_code", code, "value", v)
			return report, fmt.Errorf("counter %s is not an integer: %q", code, v)
		}
		pending = append(pending, fold{code: code, clicks: n})
	}

	var folded []fold
	var orphaned []string
	err = r.repo.Transaction(ctx, func(tx store.Repository) error {
		folded, orphaned = folded[:0], orphaned[:0]
		for _, f := range pending {
			err := tx.SetClicks(ctx, f.code, f.clicks)
			if errors.Is(err, store.ErrNotFound) {
				orphaned = append(orphaned, f.code)
				continue
			}
			if err != nil {
				return fmt.Errorf("fold %s: %w", f.code, err)
			}
			folded = append(folded, f)
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to sync clicks", "stage", "commit", "pending", len(pending), "err", err)
		return report, err
	}

	var errs []error
	for _, f := range folded {
		report.Folded = append(report.Folded, f.code)
		cleared, err := r.cache.SRemIfEqual(ctx, cache.DirtyClicksKey, f.code, cache.ClicksKey(f.code), f.clicks)
		if err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", f.code, err))
			continue
		}
		if !cleared {
			report.Retained = append(report.Retained, f.code)
		}
	}

	report.Orphaned = orphaned
	for _, code := range orphaned {
		log.Error("Dirty short code has no durable record", "short_code", code)
	}
	if len(orphaned) > 0 {
		if err := r.cache.SRem(ctx, cache.DirtyClicksKey, orphaned...); err != nil {
			errs = append(errs, fmt.Errorf("drop orphaned codes: %w", err))
		}
		errs = append(errs, fmt.Errorf("%w: %s", ErrInconsistent, strings.Join(orphaned, ", ")))
	}
	// A click after the counter was read recreates it; such codes stay dirty.
	for _, code := range report.Expired {
		log.Warn("Click counter expired before sync", "short_code", code)
		if _, err := r.cache.SRemIfMissing(ctx, cache.DirtyClicksKey, code, cache.ClicksKey(code)); err != nil {
			errs = append(errs, fmt.Errorf("drop expired %s: %w", code, err))
		}
	}

	log.Info("Clicks synced",
		"snapshot", report.Snapshot,
		"folded", len(report.Folded),
		"retained", len(report.Retained),
		"orphaned", len(report.Orphaned),
		"expired", len(report.Expired),
		"elapsed_ms", time.Since(started).Milliseconds(),
	)
	return report, errors.Join(errs...)
}

// Loop runs on every tick until ctx is done. Failed runs are logged and left
// for the next tick.
func (r *Reconciler) Loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := r.Run(ctx)
			switch {
			case errors.Is(err, ErrRunInProgress):
				logger.FromContext(ctx).Warn("Reconcile run skipped, another run holds the lock")
			case err != nil:
				logger.FromContext(ctx).Error("Reconcile run failed", "err", err)
			}
		}
	}
}

// acquire takes the cache-held lock that keeps runs in separate processes
// from overlapping. Release only deletes the lock while it still holds this
// run's token, so a run that outlived lockTTL leaves its successor's alone.
func (r *Reconciler) acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := r.cache.SetNX(ctx, cache.ReconcileLockKey, token, r.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire reconcile lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func() {
		released, err := r.cache.DelIfEqual(context.WithoutCancel(ctx), cache.ReconcileLockKey, token)
		if err != nil {
			logger.FromContext(ctx).Warn("Failed to release reconcile lock", "err", err)
			return
		}
		if !released {
			logger.FromContext(ctx).Warn("Reconcile lock expired during the run", "lock_ttl", r.lockTTL.String())
		}
	}, nil
}
