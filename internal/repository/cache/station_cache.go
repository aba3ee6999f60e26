package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/charger-microservice/internal/domain"
	"github.com/charger-microservice/internal/domain/repository"
	"github.com/charger-microservice/internal/pkg/metrics"
)

// CatalogSnapshotKey - ключ полного снимка каталога в Redis
const CatalogSnapshotKey = "charger:catalog:snapshot:v1"

type cachedStationRepository struct {
	next   repository.StationRepository
	cache  repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedStationRepository кеширует полный снимок каталога на ttl.
// Снимок - надмножество любой выборки FindCandidates, поэтому подсказка area
// при наличии снимка игнорируется. Ошибки кеша не ломают чтение каталога.
func NewCachedStationRepository(
	next repository.StationRepository,
	cache repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) repository.StationRepository {
	if ttl <= 0 {
		return next
	}
	return &cachedStationRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *cachedStationRepository) FindCandidates(ctx context.Context, area *domain.SearchArea) ([]*domain.Station, error) {
	if stations, ok := r.loadSnapshot(ctx); ok {
		return stations, nil
	}

	stations, err := r.next.FindCandidates(ctx, nil)
	if err != nil {
		return nil, err
	}

	r.storeSnapshot(ctx, stations)
	return stations, nil
}

func (r *cachedStationRepository) FindByID(ctx context.Context, id string) (*domain.Station, error) {
	return r.next.FindByID(ctx, id)
}

func (r *cachedStationRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Station, error) {
	return r.next.FindByIDs(ctx, ids)
}

func (r *cachedStationRepository) loadSnapshot(ctx context.Context) ([]*domain.Station, bool) {
	data, err := r.cache.Get(ctx, CatalogSnapshotKey)
	if err != nil {
		metrics.CountCacheResult("catalog", "error")
		r.logger.Warn("Catalog cache unavailable, reading storage", zap.Error(err))
		return nil, false
	}
	if data == nil {
		metrics.CountCacheResult("catalog", "miss")
		return nil, false
	}

	var stations []*domain.Station
	if err := json.Unmarshal(data, &stations); err != nil {
		r.logger.Warn("Corrupted catalog snapshot, dropping", zap.Error(err))
		metrics.CountCacheResult("catalog", "error")
		_ = r.cache.Delete(ctx, CatalogSnapshotKey)
		return nil, false
	}
	metrics.CountCacheResult("catalog", "hit")
	return stations, true
}

func (r *cachedStationRepository) storeSnapshot(ctx context.Context, stations []*domain.Station) {
	data, err := json.Marshal(stations)
	if err != nil {
		r.logger.Warn("Failed to marshal catalog snapshot", zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, CatalogSnapshotKey, data, r.ttl); err != nil {
		r.logger.Warn("Failed to store catalog snapshot", zap.Error(err))
	}
}
