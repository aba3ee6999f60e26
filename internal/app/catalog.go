package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/charger-microservice/internal/config"
	"github.com/charger-microservice/internal/domain/repository"
	"github.com/charger-microservice/internal/repository/cache"
	"github.com/charger-microservice/internal/repository/mongodb"
	"github.com/charger-microservice/internal/repository/postgres"
	"github.com/charger-microservice/internal/repository/resilient"
)

// Catalog - собранный репозиторий станций: хранилище, circuit breaker и кеш снимка
type Catalog struct {
	Stations repository.StationRepository
	Storage  HealthCloser
}

// HealthCloser - подключение к хранилищу каталога
type HealthCloser interface {
	Health(ctx context.Context) error
	Close(ctx context.Context) error
}

type postgresStorage struct {
	db *postgres.DB
}

func (s postgresStorage) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}

func (s postgresStorage) Close(context.Context) error {
	return s.db.Close()
}

// OpenCatalog подключается к хранилищу по STORAGE_DRIVER и оборачивает его
// circuit breaker'ом и кешем снимка (если cacheRepo не nil).
func OpenCatalog(
	ctx context.Context,
	cfg *config.Config,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
) (*Catalog, error) {
	var (
		storage HealthCloser
		base    repository.StationRepository
	)

	switch cfg.Storage.Driver {
	case config.StorageMongo:
		db, err := mongodb.New(ctx, cfg.GetMongoURI(), &cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		storage = db
		base = mongodb.NewStationRepository(db.Collection(cfg.Mongo.Collection), cfg.Catalog.GeoPrefilter, logger)

	case config.StoragePostgres:
		db, err := postgres.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Database.MigrationsPath != "" {
			if err := postgres.Migrate(&cfg.Database, cfg.Database.MigrationsPath, logger); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		storage = postgresStorage{db: db}
		base = postgres.NewStationRepository(db, cfg.Catalog.GeoPrefilter)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	breakerCfg := resilient.DefaultCircuitBreakerConfig("catalog-" + cfg.Storage.Driver)
	if cfg.Catalog.BreakerTimeout > 0 {
		breakerCfg.Timeout = cfg.Catalog.BreakerTimeout
	}
	stations := resilient.NewStationRepository(base, breakerCfg, logger)

	if cacheRepo != nil {
		stations = cache.NewCachedStationRepository(stations, cacheRepo, cfg.Cache.CatalogCacheTTL, logger)
	}

	logger.Info("Station catalog initialized",
		zap.String("driver", cfg.Storage.Driver),
		zap.Bool("geo_prefilter", cfg.Catalog.GeoPrefilter),
		zap.Duration("catalog_cache_ttl", cfg.Cache.CatalogCacheTTL))

	return &Catalog{Stations: stations, Storage: storage}, nil
}
