package usecase

import (
	"context"
	stderrors "errors"
	"strings"

	"go.uber.org/zap"

	"github.com/charger-microservice/internal/domain"
	"github.com/charger-microservice/internal/domain/repository"
	"github.com/charger-microservice/internal/pkg/errors"
	"github.com/charger-microservice/internal/pkg/metrics"
	"github.com/charger-microservice/internal/pkg/validator"
	"github.com/charger-microservice/internal/usecase/dto"
)

// StationUseCase - выборка зарядных станций из каталога
type StationUseCase struct {
	stationRepo repository.StationRepository
	logger      *zap.Logger
}

// NewStationUseCase создает новый экземпляр StationUseCase
func NewStationUseCase(stationRepo repository.StationRepository, logger *zap.Logger) *StationUseCase {
	return &StationUseCase{
		stationRepo: stationRepo,
		logger:      logger,
	}
}

// ListStations возвращает станции, подходящие под критерии.
// С точкой отсчёта результат отсортирован по расстоянию и содержит distance_km.
func (uc *StationUseCase) ListStations(ctx context.Context, criteria domain.FilterCriteria) ([]domain.StationMatch, error) {
	return uc.query(ctx, "list", criteria)
}

// NearestStation возвращает ближайшую подходящую станцию
func (uc *StationUseCase) NearestStation(ctx context.Context, criteria domain.FilterCriteria) (*domain.StationMatch, error) {
	if !criteria.HasLocation() {
		metrics.CountCatalogQuery("nearest", "invalid")
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"lat": "reference point is required",
		})
	}

	stations, err := uc.candidates(ctx, "nearest", criteria)
	if err != nil {
		return nil, err
	}

	match, ok := domain.Nearest(stations, criteria)
	if !ok {
		metrics.CountCatalogQuery("nearest", "not_found")
		return nil, errors.ErrStationNotFound
	}

	metrics.CountCatalogQuery("nearest", "ok")
	metrics.ObserveMatches("nearest", 1)
	return &match, nil
}

// SearchNearby - поиск в радиусе без фильтров по атрибутам
func (uc *StationUseCase) SearchNearby(ctx context.Context, req dto.NearbyRequest) (*dto.NearbyResponse, error) {
	if err := validator.Validate(&req); err != nil {
		metrics.CountCatalogQuery("nearby", "invalid")
		return nil, err
	}

	matches, err := uc.query(ctx, "nearby", req.ToCriteria())
	if err != nil {
		return nil, err
	}
	return dto.NewNearbyResponse(matches), nil
}

// GetStationByID возвращает станцию по ID
func (uc *StationUseCase) GetStationByID(ctx context.Context, id string) (*domain.Station, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"stationId": "required",
		})
	}

	station, err := uc.stationRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, errors.ErrStationNotFound) {
			metrics.CountCatalogQuery("by_id", "not_found")
			return nil, errors.ErrStationNotFound
		}
		return nil, uc.upstream("by_id", err)
	}

	metrics.CountCatalogQuery("by_id", "ok")
	return station, nil
}

// GetStationsByIDs возвращает найденные станции в порядке запроса; дубли и отсутствующие ID пропускаются
func (uc *StationUseCase) GetStationsByIDs(ctx context.Context, ids []string) ([]*domain.Station, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return []*domain.Station{}, nil
	}

	stations, err := uc.stationRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, uc.upstream("by_ids", err)
	}

	byID := make(map[string]*domain.Station, len(stations))
	for _, s := range stations {
		byID[s.ID] = s
	}
	result := make([]*domain.Station, 0, len(stations))
	for _, id := range unique {
		if s, ok := byID[id]; ok {
			result = append(result, s)
		}
	}

	metrics.CountCatalogQuery("by_ids", "ok")
	metrics.ObserveMatches("by_ids", len(result))
	return result, nil
}

func (uc *StationUseCase) query(ctx context.Context, operation string, criteria domain.FilterCriteria) ([]domain.StationMatch, error) {
	stations, err := uc.candidates(ctx, operation, criteria)
	if err != nil {
		return nil, err
	}

	matches := domain.ApplyCriteria(stations, criteria)

	uc.logger.Debug("Catalog query executed",
		zap.String("operation", operation),
		zap.Int("candidates", len(stations)),
		zap.Int("matches", len(matches)))
	metrics.CountCatalogQuery(operation, "ok")
	metrics.ObserveMatches(operation, len(matches))

	return matches, nil
}

// candidates проверяет критерии до обращения к каталогу и загружает кандидатов
func (uc *StationUseCase) candidates(ctx context.Context, operation string, criteria domain.FilterCriteria) ([]*domain.Station, error) {
	if err := criteria.Validate(); err != nil {
		metrics.CountCatalogQuery(operation, "invalid")
		return nil, err
	}

	stations, err := uc.stationRepo.FindCandidates(ctx, criteria.SearchArea())
	if err != nil {
		return nil, uc.upstream(operation, err)
	}
	return stations, nil
}

// upstream переводит ошибку каталога в UPSTREAM_UNAVAILABLE, сохраняя причину
func (uc *StationUseCase) upstream(operation string, err error) error {
	uc.logger.Error("Station catalog unavailable",
		zap.String("operation", operation),
		zap.Error(err))
	metrics.CountCatalogQuery(operation, "upstream_error")
	return errors.ErrUpstreamUnavailable.Wrap(err)
}
