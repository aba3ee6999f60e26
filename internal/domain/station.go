package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charger-microservice/internal/pkg/utils"
)

// Station - зарядная станция из каталога
type Station struct {
	ID                 string     `json:"id" db:"id"`
	Latitude           *float64   `json:"latitude" db:"-"`
	Longitude          *float64   `json:"longitude" db:"-"`
	Operator           string     `json:"operator,omitempty" db:"operator"`
	ConnectorType      string     `json:"connection_type,omitempty" db:"connection_type"`
	CurrentType        string     `json:"current_type,omitempty" db:"current_type"`
	Cost               *string    `json:"cost,omitempty" db:"cost"`
	ChargingPoints     *int       `json:"charging_points,omitempty" db:"charging_points"`
	ChargingPointsFlag *int       `json:"charging_points_flag,omitempty" db:"charging_points_flag"`
	PayAtLocation      *string    `json:"pay_at_location,omitempty" db:"pay_at_location"`
	MembershipRequired *string    `json:"membership_required,omitempty" db:"membership_required"`
	AccessKeyRequired  *string    `json:"access_key_required,omitempty" db:"access_key_required"`
	IsOperational      *string    `json:"is_operational,omitempty" db:"is_operational"`
	CreatedAt          *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// GeoPoint - проверенная пара координат в десятичных градусах
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewGeoPoint возвращает точку, если координаты конечны и в допустимом диапазоне
func NewGeoPoint(lat, lon float64) (*GeoPoint, bool) {
	if !utils.ValidateCoordinates(lat, lon) {
		return nil, false
	}
	return &GeoPoint{Lat: lat, Lon: lon}, true
}

// Location возвращает координаты станции; false для станций без валидных координат
func (s *Station) Location() (GeoPoint, bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: *s.Latitude, Lon: *s.Longitude}, true
}

// SetLocation выставляет координаты из сырых значений хранилища.
// Старые записи хранят lat/lon строками, поэтому принимаются и числа, и числовой текст.
// Если хотя бы одна координата не разбирается, станция остаётся без координат.
func (s *Station) SetLocation(rawLat, rawLon interface{}) error {
	s.Latitude, s.Longitude = nil, nil

	lat, err := ParseCoordinate(rawLat)
	if err != nil {
		return fmt.Errorf("latitude: %w", err)
	}
	lon, err := ParseCoordinate(rawLon)
	if err != nil {
		return fmt.Errorf("longitude: %w", err)
	}

	point, ok := NewGeoPoint(lat, lon)
	if !ok {
		return fmt.Errorf("coordinates out of range: %v, %v", lat, lon)
	}
	s.Latitude = &point.Lat
	s.Longitude = &point.Lon
	return nil
}

// ParseCoordinate приводит значение координаты к float64
func ParseCoordinate(v interface{}) (float64, error) {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0, fmt.Errorf("missing value")
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", val.String())
		}
		f = parsed
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", val)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return f, nil
}

// StationMatch - станция, прошедшая фильтр, с расстоянием до точки запроса
type StationMatch struct {
	*Station
	DistanceKm *float64 `json:"distance_km,omitempty"`
}
