package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/tiendapos/pos/internal/app"
	"github.com/tiendapos/pos/internal/auth"
	"github.com/tiendapos/pos/internal/observability"
	"github.com/tiendapos/pos/internal/platform/cache"
	"github.com/tiendapos/pos/internal/platform/db"
	"github.com/tiendapos/pos/internal/platform/lock"
	"github.com/tiendapos/pos/internal/products"
	"github.com/tiendapos/pos/internal/sales"
	"github.com/tiendapos/pos/internal/shared"
	"github.com/tiendapos/pos/internal/users"
	"github.com/tiendapos/pos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("pos server", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	redisCfg := cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	redisClient, err := cache.New(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	redisOpts := redisCfg.AsynqOpt()
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("job inspector close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	idempotency := shared.NewIdempotencyStore(dbpool)
	auditLogger := shared.NewAuditLogger(dbpool)

	authService := auth.NewService(auth.NewRepository(dbpool))
	if cfg.AdminUsername != "" {
		created, err := authService.EnsureInitialAccount(ctx, auth.InitialAccount{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
			FullName: cfg.AdminFullName,
		})
		if err != nil {
			return err
		}
		if created {
			logger.Info("initial account provisioned", slog.String("username", cfg.AdminUsername))
		}
	}

	productService := products.NewService(products.NewRepository(dbpool))
	salesService := sales.NewService(sales.NewRepository(dbpool), auditLogger, idempotency, sales.ServiceConfig{
		AllowNegativeStock: cfg.SalesAllowNegativeStock,
		Locker:             lock.NewRedisLocker(redisClient, lock.Options{TTL: cfg.SalesIDLockTTL}),
		Events:             jobClient,
		Logger:             logger,
	})
	userService := users.NewService(users.NewRepository(dbpool), users.ServiceConfig{
		ProtectedUsername: cfg.AdminUsername,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthHandler:     auth.NewHandler(logger, authService),
		ProductsHandler: products.NewHandler(logger, productService),
		SalesHandler:    sales.NewHandler(logger, salesService, metrics),
		UsersHandler:    users.NewHandler(logger, userService),
		JobHandler:      jobs.NewHandler(inspector, logger),
		Metrics:         metrics,
		DB:              dbpool,
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: cfg.AppReadTimeout,
		WriteTimeout:      cfg.AppWriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("pos server listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown", slog.Any("error", err))
			return err
		}
		logger.Info("pos server stopped")
		return nil
	})
	return g.Wait()
}
