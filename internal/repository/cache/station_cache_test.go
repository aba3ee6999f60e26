package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/domain"
	"github.com/charger-microservice/internal/repository/cache"
)

type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) FindCandidates(ctx context.Context, area *domain.SearchArea) ([]*domain.Station, error) {
	args := m.Called(ctx, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Station), args.Error(1)
}

func (m *MockStationRepository) FindByID(ctx context.Context, id string) (*domain.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Station), args.Error(1)
}

func (m *MockStationRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Station, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Station), args.Error(1)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetStats(ctx context.Context) (*domain.CatalogStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogStatistics), args.Error(1)
}

func (m *MockCacheRepository) SetStats(ctx context.Context, stats *domain.CatalogStatistics, ttl time.Duration) error {
	return m.Called(ctx, stats, ttl).Error(0)
}

func sampleStations() []*domain.Station {
	lat, lon := -37.81, 144.96
	return []*domain.Station{
		{ID: "1", Latitude: &lat, Longitude: &lon, ConnectorType: "CCS", CurrentType: "DC"},
		{ID: "2", ConnectorType: "Type 2", CurrentType: "AC (Single-Phase)"},
	}
}

func TestCachedStationRepository_ZeroTTLReturnsInner(t *testing.T) {
	inner := &MockStationRepository{}
	repo := cache.NewCachedStationRepository(inner, &MockCacheRepository{}, 0, zap.NewNop())

	assert.Same(t, inner, repo)
}

func TestCachedStationRepository_FindCandidates(t *testing.T) {
	ctx := context.Background()
	ttl := time.Minute
	area := &domain.SearchArea{Center: domain.GeoPoint{Lat: -37.8, Lon: 144.9}, RadiusKm: 5}

	t.Run("miss loads full catalog and stores snapshot", func(t *testing.T) {
		inner := &MockStationRepository{}
		store := &MockCacheRepository{}
		stations := sampleStations()

		store.On("Get", ctx, cache.CatalogSnapshotKey).Return(nil, nil)
		inner.On("FindCandidates", ctx, (*domain.SearchArea)(nil)).Return(stations, nil)
		store.On("Set", ctx, cache.CatalogSnapshotKey, mock.AnythingOfType("[]uint8"), ttl).Return(nil)

		repo := cache.NewCachedStationRepository(inner, store, ttl, zap.NewNop())
		got, err := repo.FindCandidates(ctx, area)

		require.NoError(t, err)
		assert.Equal(t, stations, got)
		inner.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("hit skips storage", func(t *testing.T) {
		inner := &MockStationRepository{}
		store := &MockCacheRepository{}
		data, err := json.Marshal(sampleStations())
		require.NoError(t, err)

		store.On("Get", ctx, cache.CatalogSnapshotKey).Return(data, nil)

		repo := cache.NewCachedStationRepository(inner, store, ttl, zap.NewNop())
		got, err := repo.FindCandidates(ctx, area)

		require.NoError(t, err)
		require.Len(t, got, 2)
		loc, ok := got[0].Location()
		require.True(t, ok)
		assert.Equal(t, -37.81, loc.Lat)
		_, ok = got[1].Location()
		assert.False(t, ok)
		inner.AssertNotCalled(t, "FindCandidates", mock.Anything, mock.Anything)
	})

	t.Run("cache error falls back to storage", func(t *testing.T) {
		inner := &MockStationRepository{}
		store := &MockCacheRepository{}

		store.On("Get", ctx, cache.CatalogSnapshotKey).Return(nil, errors.New("connection refused"))
		inner.On("FindCandidates", ctx, (*domain.SearchArea)(nil)).Return(sampleStations(), nil)
		store.On("Set", ctx, cache.CatalogSnapshotKey, mock.Anything, ttl).Return(errors.New("connection refused"))

		repo := cache.NewCachedStationRepository(inner, store, ttl, zap.NewNop())
		got, err := repo.FindCandidates(ctx, nil)

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("corrupted snapshot is dropped", func(t *testing.T) {
		inner := &MockStationRepository{}
		store := &MockCacheRepository{}

		store.On("Get", ctx, cache.CatalogSnapshotKey).Return([]byte("{not json"), nil)
		store.On("Delete", ctx, cache.CatalogSnapshotKey).Return(nil)
		inner.On("FindCandidates", ctx, (*domain.SearchArea)(nil)).Return(sampleStations(), nil)
		store.On("Set", ctx, cache.CatalogSnapshotKey, mock.Anything, ttl).Return(nil)

		repo := cache.NewCachedStationRepository(inner, store, ttl, zap.NewNop())
		_, err := repo.FindCandidates(ctx, nil)

		require.NoError(t, err)
		store.AssertCalled(t, "Delete", ctx, cache.CatalogSnapshotKey)
	})

	t.Run("storage error is not cached", func(t *testing.T) {
		inner := &MockStationRepository{}
		store := &MockCacheRepository{}
		storageErr := errors.New("mongo down")

		store.On("Get", ctx, cache.CatalogSnapshotKey).Return(nil, nil)
		inner.On("FindCandidates", ctx, (*domain.SearchArea)(nil)).Return(nil, storageErr)

		repo := cache.NewCachedStationRepository(inner, store, ttl, zap.NewNop())
		_, err := repo.FindCandidates(ctx, nil)

		assert.ErrorIs(t, err, storageErr)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCachedStationRepository_PassThrough(t *testing.T) {
	ctx := context.Background()
	inner := &MockStationRepository{}
	station := sampleStations()[0]

	inner.On("FindByID", ctx, "1").Return(station, nil)
	inner.On("FindByIDs", ctx, []string{"1", "2"}).Return(sampleStations(), nil)

	repo := cache.NewCachedStationRepository(inner, &MockCacheRepository{}, time.Minute, zap.NewNop())

	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, station, got)

	list, err := repo.FindByIDs(ctx, []string{"1", "2"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
