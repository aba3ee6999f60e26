package dto

import (
	"strconv"
	"strings"

	"github.com/charger-microservice/internal/domain"
	"github.com/charger-microservice/internal/pkg/errors"
)

// StationQuery - параметры GET /chargers и /chargers/nearest-charger как они пришли в query.
// Фильтры можно передавать списком через запятую или повторять параметр.
type StationQuery struct {
	Connectors []string
	Currents   []string
	Operators  []string
	Lat        string
	Lon        string
	Radius     string
}

// ToCriteria разбирает числа и собирает критерии.
// lat и lon передаются только вместе, radius требует обе координаты.
func (q StationQuery) ToCriteria() (domain.FilterCriteria, error) {
	criteria := domain.CanonicalizeCriteria(domain.RawCriteria{
		Connectors: q.Connectors,
		Currents:   q.Currents,
		Operators:  q.Operators,
	})

	lat, hasLat, err := parseOptionalFloat("lat", q.Lat)
	if err != nil {
		return criteria, err
	}
	lon, hasLon, err := parseOptionalFloat("lon", q.Lon)
	if err != nil {
		return criteria, err
	}
	radius, hasRadius, err := parseOptionalFloat("radius", q.Radius)
	if err != nil {
		return criteria, err
	}

	if hasLat != hasLon {
		return criteria, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"lat": "lat and lon must be provided together",
		})
	}
	if hasLat {
		criteria = criteria.WithReferencePoint(lat, lon)
	}
	if hasRadius {
		criteria = criteria.WithRadius(radius)
	}

	return criteria, nil
}

func parseOptionalFloat(name, raw string) (float64, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			name: "must be a number",
		})
	}
	return v, true, nil
}

// NearbyRequest - тело POST /chargers/nearby; radius в километрах
type NearbyRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Radius    *float64 `json:"radius" validate:"required,gt=0"`
}

// ToCriteria - критерии без фильтров по атрибутам
func (r NearbyRequest) ToCriteria() domain.FilterCriteria {
	return domain.FilterCriteria{}.
		WithReferencePoint(*r.Latitude, *r.Longitude).
		WithRadius(*r.Radius)
}

// StationsByIDsRequest - тело POST /chargers/by-ids (избранные станции)
type StationsByIDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=100,dive,required"`
}
