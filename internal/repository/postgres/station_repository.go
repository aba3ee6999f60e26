package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/domain"
	"github.com/charger-microservice/internal/domain/repository"
	"github.com/charger-microservice/internal/pkg/errors"
	"github.com/charger-microservice/internal/pkg/utils"
)

const stationColumns = `
	id, latitude, longitude, operator, connection_type, current_type,
	cost, charging_points, charging_points_flag, pay_at_location,
	membership_required, access_key_required, is_operational,
	created_at, updated_at`

// numericPattern - координата, которую можно безопасно привести к double precision
const numericPattern = `^\s*[-+]?[0-9]+(\.[0-9]+)?\s*$`

type stationRow struct {
	ID                 string         `db:"id"`
	Latitude           sql.NullString `db:"latitude"`
	Longitude          sql.NullString `db:"longitude"`
	Operator           sql.NullString `db:"operator"`
	ConnectionType     sql.NullString `db:"connection_type"`
	CurrentType        sql.NullString `db:"current_type"`
	Cost               sql.NullString `db:"cost"`
	ChargingPoints     sql.NullInt64  `db:"charging_points"`
	ChargingPointsFlag sql.NullInt64  `db:"charging_points_flag"`
	PayAtLocation      sql.NullString `db:"pay_at_location"`
	MembershipRequired sql.NullString `db:"membership_required"`
	AccessKeyRequired  sql.NullString `db:"access_key_required"`
	IsOperational      sql.NullString `db:"is_operational"`
	CreatedAt          sql.NullTime   `db:"created_at"`
	UpdatedAt          sql.NullTime   `db:"updated_at"`
}

type stationRepository struct {
	db           *sqlx.DB
	geoPrefilter bool
	logger       *zap.Logger
}

// NewStationRepository создает репозиторий станций над таблицей charging_stations
func NewStationRepository(db *DB, geoPrefilter bool) repository.StationRepository {
	return &stationRepository{
		db:           db.DB,
		geoPrefilter: geoPrefilter,
		logger:       db.logger,
	}
}

// FindCandidates возвращает станции каталога.
// Префильтр по bounding box применяется только к строкам с числовыми координатами,
// остальные строки возвращаются как есть.
func (r *stationRepository) FindCandidates(ctx context.Context, area *domain.SearchArea) ([]*domain.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM charging_stations`
	var args []interface{}

	if r.geoPrefilter && area != nil {
		minLat, minLon, maxLat, maxLon := utils.BoundingBox(area.Center.Lat, area.Center.Lon, area.RadiusKm)
		query += `
		WHERE CASE
			WHEN latitude ~ $1 AND longitude ~ $1 THEN
				btrim(latitude)::double precision BETWEEN $2 AND $3
				AND btrim(longitude)::double precision BETWEEN $4 AND $5
			ELSE TRUE
		END`
		args = append(args, numericPattern, minLat, maxLat, minLon, maxLon)
	}
	query += ` ORDER BY created_at NULLS LAST, id`

	return r.selectStations(ctx, query, args...)
}

func (r *stationRepository) FindByID(ctx context.Context, id string) (*domain.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM charging_stations WHERE id = $1`

	var row stationRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrStationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get station by ID", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	return r.toDomain(&row), nil
}

func (r *stationRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Station, error) {
	if len(ids) == 0 {
		return []*domain.Station{}, nil
	}
	query := `SELECT ` + stationColumns + ` FROM charging_stations WHERE id = ANY($1) ORDER BY id`
	return r.selectStations(ctx, query, pq.Array(ids))
}

func (r *stationRepository) selectStations(ctx context.Context, query string, args ...interface{}) ([]*domain.Station, error) {
	var rows []stationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to select stations", zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	stations := make([]*domain.Station, 0, len(rows))
	for i := range rows {
		stations = append(stations, r.toDomain(&rows[i]))
	}
	return stations, nil
}

func (r *stationRepository) toDomain(row *stationRow) *domain.Station {
	s := &domain.Station{
		ID:                 row.ID,
		Operator:           row.Operator.String,
		ConnectorType:      row.ConnectionType.String,
		CurrentType:        row.CurrentType.String,
		Cost:               nullString(row.Cost),
		ChargingPoints:     nullInt(row.ChargingPoints),
		ChargingPointsFlag: nullInt(row.ChargingPointsFlag),
		PayAtLocation:      nullString(row.PayAtLocation),
		MembershipRequired: nullString(row.MembershipRequired),
		AccessKeyRequired:  nullString(row.AccessKeyRequired),
		IsOperational:      nullString(row.IsOperational),
		CreatedAt:          nullTime(row.CreatedAt),
		UpdatedAt:          nullTime(row.UpdatedAt),
	}

	if err := s.SetLocation(row.Latitude.String, row.Longitude.String); err != nil {
		r.logger.Debug("Station has no usable coordinates", zap.String("id", row.ID), zap.Error(err))
	}
	return s
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}
