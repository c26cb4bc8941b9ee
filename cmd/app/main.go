// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"purchase-registry/internal/config"
	"purchase-registry/internal/domain/ports/repository"
	"purchase-registry/internal/infra/adapters/envato"
	"purchase-registry/internal/infra/api"
	pg "purchase-registry/internal/infra/db/postgres"
	"purchase-registry/internal/infra/i18n"
	"purchase-registry/internal/infra/logging"
	"purchase-registry/internal/infra/memory"
	"purchase-registry/internal/infra/metrics"
	red "purchase-registry/internal/infra/redis"
	"purchase-registry/internal/usecase"
)

// set with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (memory store, unredacted logs)")
	lang := flag.String("lang", "en", "language of error messages")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Registry store ----
	var repo repository.RegistryRepository
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()
		if err := pg.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("postgres schema")
		}
		go pg.ReportPoolStats(ctx, pool, 15*time.Second)
		repo = pg.NewRegistryRepo(pool)
		logger.Info().Msg("registry store: postgres")
	} else {
		repo = memory.NewRegistryRepo()
		logger.Warn().Msg("registry store: in-memory (dev only, not persisted)")
	}

	// ---- Marketplace ----
	market, err := envato.NewClient(cfg.Envato.Token, cfg.Envato.BaseURL, cfg.Envato.Timeout, logger, cfg.Runtime.Dev)
	if err != nil {
		logger.Fatal().Err(err).Msg("envato client")
	}

	// ---- Redis (optional) ----
	var locker repository.Locker = memory.NewKeyedLocker()
	opts := api.Options{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		AttachPerHour:  cfg.RateLimit.AttachPerHour,
		AttachKey:      red.AttachKey,
	}
	if cfg.Redis.URL != "" {
		rc, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer rc.Close()
		locker = red.NewLocker(rc, cfg.Redis.LockTTL, logger)
		opts.Limiter = red.NewRateLimiter(rc)
		logger.Info().Msg("code locks and rate limits: redis")
	}

	// ---- Use cases ----
	purchaseUC := usecase.NewPurchaseUseCase(market, cfg.Envato.Concurrency, time.Now, logger)
	registryUC := usecase.NewRegistryUseCase(repo, locker, purchaseUC, logger, cfg.Runtime.Dev)

	// ---- HTTP ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, *lang)
	if err != nil {
		logger.Fatal().Err(err).Msg("translations")
	}
	logger.Info().Str("lang", tr.Lang()).Msg("error messages loaded")
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		logger.Warn().Msg("auth.jwt_secret not set; using an insecure dev secret")
		secret = "dev-secret"
	}
	srv := api.NewServer(purchaseUC, registryUC, api.NewAuthManager(secret, 0), tr, opts, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("version", version).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
