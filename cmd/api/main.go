package main

// @title Charger Microservice API
// @version 1.0.0
// @description Каталог зарядных станций для электромобилей.
// @description
// @description Основные возможности:
// @description - Фильтрация станций по типу разъёма, типу тока и оператору
// @description - Сортировка по расстоянию от точки и ограничение радиусом
// @description - Поиск ближайшей подходящей станции
// @description - Статистика по каталогу

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/charger-microservice/docs"
	"github.com/charger-microservice/internal/app"
	"github.com/charger-microservice/internal/config"
	httpDelivery "github.com/charger-microservice/internal/delivery/http"
	"github.com/charger-microservice/internal/delivery/http/handler"
	"github.com/charger-microservice/internal/pkg/logger"
	"github.com/charger-microservice/internal/repository/cache"
	"github.com/charger-microservice/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Charger Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("storage", cfg.Storage.Driver),
	)

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connected")

	cacheRepo := cache.NewCacheRepository(redisClient)

	// 4. Connect to the station catalog
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	catalog, err := app.OpenCatalog(ctx, cfg, cacheRepo, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to open station catalog", zap.Error(err))
	}

	// 5. Use cases
	stationUC := usecase.NewStationUseCase(catalog.Stations, log)
	statsUC := usecase.NewStatsUseCase(catalog.Stations, cacheRepo, cfg.Cache.StatsCacheTTL, log)

	// 6. HTTP
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewStationHandler(stationUC, log),
		handler.NewStatsHandler(statsUC, log),
		map[string]httpDelivery.HealthChecker{
			cfg.Storage.Driver: catalog.Storage,
			"redis":            redisClient,
		},
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := catalog.Storage.Close(ctx); err != nil {
		log.Error("Failed to close catalog storage", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
