package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/charger-microservice/internal/domain"
	"github.com/charger-microservice/internal/domain/repository"
	"github.com/charger-microservice/internal/pkg/errors"
	"github.com/charger-microservice/internal/pkg/metrics"
)

// StatsUseCase обрабатывает бизнес-логику для статистики каталога
type StatsUseCase struct {
	stationRepo repository.StationRepository
	cacheRepo   repository.CacheRepository
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewStatsUseCase создает новый экземпляр StatsUseCase; cacheRepo может быть nil
func NewStatsUseCase(
	stationRepo repository.StationRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *StatsUseCase {
	return &StatsUseCase{
		stationRepo: stationRepo,
		cacheRepo:   cacheRepo,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// GetStatistics возвращает статистику, используя кеш когда возможно
func (uc *StatsUseCase) GetStatistics(ctx context.Context) (*domain.CatalogStatistics, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetStats(ctx)
		if err == nil && cached != nil {
			metrics.CountCacheResult("stats", "hit")
			uc.logger.Debug("Statistics fetched from cache")
			return cached, nil
		}
		if err != nil {
			metrics.CountCacheResult("stats", "error")
			uc.logger.Warn("Failed to get stats from cache", zap.Error(err))
		} else {
			metrics.CountCacheResult("stats", "miss")
		}
	}

	return uc.RefreshStatistics(ctx)
}

// RefreshStatistics пересчитывает статистику по каталогу и обновляет кеш
func (uc *StatsUseCase) RefreshStatistics(ctx context.Context) (*domain.CatalogStatistics, error) {
	stations, err := uc.stationRepo.FindCandidates(ctx, nil)
	if err != nil {
		uc.logger.Error("Failed to load catalog for statistics", zap.Error(err))
		return nil, errors.ErrUpstreamUnavailable.Wrap(err)
	}

	stats := domain.BuildCatalogStatistics(stations, time.Now())

	if uc.cacheRepo != nil && uc.cacheTTL > 0 {
		if err := uc.cacheRepo.SetStats(ctx, stats, uc.cacheTTL); err != nil {
			// данные уже посчитаны, ошибка кеша не критична
			uc.logger.Warn("Failed to cache stats", zap.Error(err))
		}
	}

	return stats, nil
}
