package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/schoolsupply/orderdesk/internal/cache"
	"github.com/schoolsupply/orderdesk/internal/config"
	"github.com/schoolsupply/orderdesk/internal/database"
	"github.com/schoolsupply/orderdesk/internal/enum"
	"github.com/schoolsupply/orderdesk/internal/logger"
	"github.com/schoolsupply/orderdesk/internal/receipt"
	"github.com/schoolsupply/orderdesk/internal/router"
	"github.com/schoolsupply/orderdesk/internal/ws"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.IsDev()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info("database connected")

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = cache.NewRedisClient(cfg.RedisURL, log)
		if err != nil {
			// Redis only accelerates; run without it.
			log.Warn("redis unavailable, continuing without cache", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	receipts, err := newReceiptStore(cfg)
	if err != nil {
		return err
	}

	queries := database.New(pool)
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	r, err := router.New(cfg, router.Deps{
		Queries:  queries,
		Pool:     pool,
		Hub:      hub,
		Catalogs: cache.NewCatalogCache(rdb, queries, cfg.CatalogCacheTTL, log),
		Receipts: receipts,
		Redis:    rdb,
		Log:      log,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newReceiptStore(cfg *config.Config) (receipt.Store, error) {
	switch cfg.ReceiptBackend {
	case enum.ReceiptBackendImgbb:
		return receipt.NewImgbbStore(cfg.ImgbbAPIKey), nil
	default:
		s, err := receipt.NewLocalStore(cfg.ReceiptDir, cfg.PublicAppURL+"/receipts")
		if err != nil {
			return nil, fmt.Errorf("receipt store: %w", err)
		}
		return s, nil
	}
}
