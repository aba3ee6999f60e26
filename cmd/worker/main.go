package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/charger-microservice/internal/app"
	"github.com/charger-microservice/internal/config"
	"github.com/charger-microservice/internal/pkg/logger"
	"github.com/charger-microservice/internal/pkg/metrics"
	"github.com/charger-microservice/internal/repository/cache"
	redisRepo "github.com/charger-microservice/internal/repository/redis"
	"github.com/charger-microservice/internal/usecase"
	"github.com/charger-microservice/internal/worker"
	"github.com/charger-microservice/internal/worker/charger"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Charger Nearest Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("stream_read_timeout", cfg.Worker.StreamReadTimeout),
		zap.String("storage", cfg.Storage.Driver))

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	// 4. Station catalog
	openCtx, openCancel := context.WithTimeout(context.Background(), 30*time.Second)
	catalog, err := app.OpenCatalog(openCtx, cfg, cacheRepo, log)
	openCancel()
	if err != nil {
		log.Fatal("Failed to open station catalog", zap.Error(err))
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := catalog.Storage.Close(closeCtx); err != nil {
			log.Error("Failed to close catalog storage", zap.Error(err))
		}
	}()

	stationUC := usecase.NewStationUseCase(catalog.Stations, log)

	// 5. Workers
	nearestWorker := charger.NewNearestChargerWorker(
		streamRepo,
		stationUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		cfg.Worker.StreamReadTimeout,
		log,
	)

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(nearestWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Listen(ctx, cfg.GetMetricsAddr(), log); err != nil {
				log.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 6. Wait for interrupt signal or worker failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info("Received shutdown signal")
	case err := <-workerManager.Errors():
		log.Error("Worker exited unexpectedly", zap.Error(err))
	}

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
