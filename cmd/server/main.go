package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hashforgamers/hfg-booking/internal/app"
	"github.com/Hashforgamers/hfg-booking/internal/cache"
	"github.com/Hashforgamers/hfg-booking/internal/clock"
	"github.com/Hashforgamers/hfg-booking/internal/config"
	"github.com/Hashforgamers/hfg-booking/internal/controller/rest"
	"github.com/Hashforgamers/hfg-booking/internal/notifier"
	"github.com/Hashforgamers/hfg-booking/internal/repository"
	"github.com/Hashforgamers/hfg-booking/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create pgx pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	consoleCache := cache.NewConsoleCache(redisClient, cfg.ConsoleCacheTTL, logger)
	store := repository.NewStore(pool)
	systemClock := clock.System{}

	unlockClient := notifier.New(cfg.UnlockEndpoint, cfg.UnlockTimeout, logger)
	coordinator := service.NewAssignmentCoordinator(logger)
	queueService := service.NewQueueService(store, coordinator, unlockClient, consoleCache, systemClock, cfg.BlockGracePeriod, logger)
	daySlotService := service.NewDaySlotService(store, systemClock, cfg.DaySlotWindowDays, logger)

	scheduler := app.NewScheduler(daySlotService, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := rest.NewRouter(
		rest.NewQueueHandler(queueService),
		rest.NewVendorHandler(queueService, daySlotService),
		func() error { return cache.HealthCheck(context.Background(), redisClient) },
		logger,
		cfg.Environment,
	)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
