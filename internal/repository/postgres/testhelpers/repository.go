package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/domain/repository"
	"github.com/charger-microservice/internal/repository/postgres"
)

// NewStationRepositoryForTest creates a station repository with test database and logger
func NewStationRepositoryForTest(db *sqlx.DB, logger *zap.Logger, geoPrefilter bool) repository.StationRepository {
	return postgres.NewStationRepository(postgres.NewDBForTest(db, logger), geoPrefilter)
}
