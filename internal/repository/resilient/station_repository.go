package resilient

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/domain"
	"github.com/charger-microservice/internal/domain/repository"
	apperrors "github.com/charger-microservice/internal/pkg/errors"
)

type stationRepository struct {
	next    repository.StationRepository
	breaker *gobreaker.CircuitBreaker[any]
}

// NewStationRepository защищает все чтения каталога одним breaker'ом.
// Отсутствующая станция и отмена контекста клиентом не считаются отказом хранилища.
// Повторов нет: ошибка сразу уходит вызывающему.
func NewStationRepository(next repository.StationRepository, cfg CircuitBreakerConfig, logger *zap.Logger) repository.StationRepository {
	if cfg.IsSuccessful == nil {
		cfg.IsSuccessful = isStorageHealthy
	}
	return &stationRepository{
		next:    next,
		breaker: NewCircuitBreaker[any](cfg, logger),
	}
}

func isStorageHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, apperrors.ErrStationNotFound) ||
		errors.Is(err, context.Canceled)
}

func (r *stationRepository) FindCandidates(ctx context.Context, area *domain.SearchArea) ([]*domain.Station, error) {
	res, err := r.execute(func() (any, error) {
		return r.next.FindCandidates(ctx, area)
	})
	if err != nil {
		return nil, err
	}
	return res.([]*domain.Station), nil
}

func (r *stationRepository) FindByID(ctx context.Context, id string) (*domain.Station, error) {
	res, err := r.execute(func() (any, error) {
		return r.next.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Station), nil
}

func (r *stationRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Station, error) {
	res, err := r.execute(func() (any, error) {
		return r.next.FindByIDs(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return res.([]*domain.Station), nil
}

func (r *stationRepository) execute(fn func() (any, error)) (any, error) {
	res, err := r.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return res, err
}
