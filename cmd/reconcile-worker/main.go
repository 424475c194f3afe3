package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/MagnunAVF/clicklink/internal/bootstrap"
	"github.com/MagnunAVF/clicklink/internal/config"
	applog "github.com/MagnunAVF/clicklink/internal/logger"
	"github.com/MagnunAVF/clicklink/internal/reconcile"
)

type options struct {
	Once     bool          `long:"once" description:"run a single reconciliation and exit"`
	Interval time.Duration `long:"interval" description:"time between runs (default RECONCILE_INTERVAL_SECONDS)"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(2)
	}

	cfg, err := config.Load()
	applog.InitFromEnv()
	if err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}
	if cfg.CacheBackend == config.CacheMemory {
		slog.Error("The reconcile worker needs a shared cache; CACHE_BACKEND=memory is reconciled by the API service itself")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := bootstrap.OpenStore(cfg)
	if err != nil {
		slog.Error("Unable to connect to database", "err", err)
		os.Exit(1)
	}
	defer repo.Close()

	c, err := bootstrap.OpenCache(ctx, cfg)
	if err != nil {
		slog.Error("Unable to connect to cache", "err", err)
		os.Exit(1)
	}
	defer c.Close()

	rec := reconcile.New(repo, c, cfg.ReconcileLockTTL())

	if opts.Once {
		if _, err := rec.Run(ctx); err != nil && !errors.Is(err, reconcile.ErrRunInProgress) {
			slog.Error("Reconcile run failed", "err", err)
			os.Exit(1)
		}
		return
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = cfg.ReconcileInterval()
	}
	slog.Info("Reconcile Worker started", "interval", interval.String())
	rec.Loop(ctx, interval)
	slog.Info("Reconcile Worker stopped")
}
