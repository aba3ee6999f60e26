package repository

import (
	"context"

	"github.com/charger-microservice/internal/domain"
)

// StationRepository определяет методы чтения каталога зарядных станций
type StationRepository interface {
	// FindCandidates возвращает снимок каталога.
	// area - необязательная подсказка: хранилище может отбросить станции заведомо вне круга,
	// но обязано вернуть все станции внутри него и станции без геоиндекса.
	FindCandidates(ctx context.Context, area *domain.SearchArea) ([]*domain.Station, error)

	// FindByID возвращает станцию по ID или errors.ErrStationNotFound
	FindByID(ctx context.Context, id string) (*domain.Station, error)

	// FindByIDs возвращает найденные станции из списка ID, отсутствующие пропускаются
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Station, error)
}
