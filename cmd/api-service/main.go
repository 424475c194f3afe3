package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MagnunAVF/clicklink/internal/account"
	"github.com/MagnunAVF/clicklink/internal/auth"
	"github.com/MagnunAVF/clicklink/internal/bootstrap"
	"github.com/MagnunAVF/clicklink/internal/config"
	"github.com/MagnunAVF/clicklink/internal/httpapi"
	applog "github.com/MagnunAVF/clicklink/internal/logger"
	"github.com/MagnunAVF/clicklink/internal/reconcile"
	"github.com/MagnunAVF/clicklink/internal/shortlink"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	applog.InitFromEnv()
	if err != nil {
		slog.Error("Invalid configuration", "err", err)
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

	authority := auth.NewAuthority(repo, c, auth.Config{
		SecretKey:  cfg.SecretKey,
		TokenTTL:   cfg.AccessTokenTTL(),
		BcryptCost: cfg.BcryptCost,
	})
	app := httpapi.New(httpapi.Services{
		Links: shortlink.NewResolver(repo, c, shortlink.Config{
			AppDomain:    cfg.AppDomain,
			ShortCodeTTL: cfg.ShortCodeTTL(),
			ClicksTTL:    cfg.ClicksTTL(),
		}),
		Auth:     authority,
		Accounts: account.NewService(repo, authority),
		Checks:   map[string]httpapi.Pinger{"store": repo, "cache": c},
	})

	// No other process can see an in-process cache, so its counters are
	// reconciled here.
	if cfg.CacheBackend == config.CacheMemory {
		go reconcile.New(repo, c, cfg.ReconcileLockTTL()).Loop(ctx, cfg.ReconcileInterval())
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API Service", "addr", cfg.APIPort)
		errCh <- app.Listen(cfg.APIPort)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("API Service stopped", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down API Service")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Error("Graceful shutdown failed", "err", err)
		}
	}
}
