package testhelpers

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// StationFixture - строка таблицы charging_stations для тестов
type StationFixture struct {
	ID             string  `db:"id"`
	Latitude       *string `db:"latitude"`
	Longitude      *string `db:"longitude"`
	Operator       string  `db:"operator"`
	ConnectionType string  `db:"connection_type"`
	CurrentType    string  `db:"current_type"`
}

// InsertStations вставляет фикстуры станций
func InsertStations(ctx context.Context, db *sqlx.DB, stations []StationFixture) error {
	query := `
		INSERT INTO charging_stations (id, latitude, longitude, operator, connection_type, current_type)
		VALUES (:id, :latitude, :longitude, :operator, :connection_type, :current_type)`

	for _, s := range stations {
		if _, err := db.NamedExecContext(ctx, query, s); err != nil {
			return fmt.Errorf("insert station %s: %w", s.ID, err)
		}
	}
	return nil
}
