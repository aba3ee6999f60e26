package domain

import (
	"strings"

	"github.com/charger-microservice/internal/pkg/errors"
	"github.com/charger-microservice/internal/pkg/utils"
)

// Канонические значения current_type
const (
	CurrentTypeACSinglePhase = "AC (Single-Phase)"
	CurrentTypeACThreePhase  = "AC (Three-Phase)"
	CurrentTypeDC            = "DC"
)

// FilterCriteria - критерии выборки станций. Пустой список означает отсутствие фильтра.
type FilterCriteria struct {
	ConnectorTypes []string
	CurrentTypes   []string
	Operators      []string
	ReferencePoint *GeoPoint
	RadiusKm       *float64
}

// RawCriteria - значения фильтров как они пришли в запросе.
// Каждое значение может быть списком через запятую.
type RawCriteria struct {
	Connectors []string
	Currents   []string
	Operators  []string
}

// CanonicalizeCriteria приводит сырые фильтры к каноническому виду
func CanonicalizeCriteria(raw RawCriteria) FilterCriteria {
	return FilterCriteria{
		ConnectorTypes: SplitLists(raw.Connectors),
		CurrentTypes:   CanonicalCurrentTypes(SplitLists(raw.Currents)),
		Operators:      SplitLists(raw.Operators),
	}
}

// WithReferencePoint возвращает копию критериев с точкой отсчёта (без валидации)
func (c FilterCriteria) WithReferencePoint(lat, lon float64) FilterCriteria {
	c.ReferencePoint = &GeoPoint{Lat: lat, Lon: lon}
	return c
}

// WithRadius возвращает копию критериев с ограничением по радиусу
func (c FilterCriteria) WithRadius(radiusKm float64) FilterCriteria {
	c.RadiusKm = &radiusKm
	return c
}

// HasLocation - задана ли точка отсчёта
func (c FilterCriteria) HasLocation() bool {
	return c.ReferencePoint != nil
}

// SplitList разбивает строку по запятым, обрезает пробелы и убирает пустые элементы
func SplitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// SplitLists применяет SplitList к каждому значению (повторяющиеся query параметры)
func SplitLists(raw []string) []string {
	var result []string
	for _, r := range raw {
		result = append(result, SplitList(r)...)
	}
	return result
}

// CanonicalCurrentType раскрывает синонимы: AC -> AC (Single-Phase), AC3 -> AC (Three-Phase)
func CanonicalCurrentType(v string) string {
	trimmed := strings.TrimSpace(v)
	switch trimmed {
	case "AC":
		return CurrentTypeACSinglePhase
	case "AC3":
		return CurrentTypeACThreePhase
	default:
		return trimmed
	}
}

// CanonicalCurrentTypes - CanonicalCurrentType для списка
func CanonicalCurrentTypes(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = CanonicalCurrentType(v)
	}
	return result
}

// Predicate строит функцию отбора станций.
// Поле станции разбивается на токены по запятым; измерение совпадает, если фильтр пуст
// или хотя бы одно значение фильтра (без учёта регистра) есть среди токенов.
// Все три измерения объединяются через AND.
func (c FilterCriteria) Predicate() func(*Station) bool {
	connectors := lowerSet(c.ConnectorTypes)
	currents := lowerSet(c.CurrentTypes)
	operators := lowerSet(c.Operators)

	return func(s *Station) bool {
		if s == nil {
			return false
		}
		return matchesTokens(connectors, s.ConnectorType) &&
			matchesTokens(currents, s.CurrentType) &&
			matchesTokens(operators, s.Operator)
	}
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			set[strings.ToLower(trimmed)] = struct{}{}
		}
	}
	return set
}

func matchesTokens(filter map[string]struct{}, field string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, token := range strings.Split(field, ",") {
		if _, ok := filter[strings.ToLower(strings.TrimSpace(token))]; ok {
			return true
		}
	}
	return false
}

// Validate проверяет согласованность критериев до обращения к каталогу
func (c FilterCriteria) Validate() error {
	if c.ReferencePoint != nil {
		if !utils.ValidateCoordinates(c.ReferencePoint.Lat, c.ReferencePoint.Lon) {
			return errors.ErrInvalidCoordinates
		}
	}
	if c.RadiusKm != nil {
		if c.ReferencePoint == nil {
			return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"radius": "requires latitude and longitude",
			})
		}
		if !utils.ValidateRadius(*c.RadiusKm) {
			return errors.ErrInvalidRadius
		}
	}
	return nil
}
