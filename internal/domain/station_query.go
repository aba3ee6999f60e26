package domain

import (
	"sort"

	"github.com/charger-microservice/internal/pkg/utils"
)

// ApplyCriteria фильтрует снимок каталога.
// Без точки отсчёта возвращает совпавшие станции в исходном порядке и без расстояния.
// С точкой отсчёта отбрасывает станции без координат, считает расстояние,
// применяет радиус (граница включительно) и сортирует по возрастанию расстояния.
// При равных расстояниях сохраняется порядок каталога.
func ApplyCriteria(stations []*Station, criteria FilterCriteria) []StationMatch {
	match := criteria.Predicate()
	result := make([]StationMatch, 0)

	if criteria.ReferencePoint == nil {
		for _, s := range stations {
			if match(s) {
				result = append(result, StationMatch{Station: s})
			}
		}
		return result
	}

	ref := *criteria.ReferencePoint
	for _, s := range stations {
		if !match(s) {
			continue
		}
		loc, ok := s.Location()
		if !ok {
			continue
		}
		d := utils.HaversineDistance(ref.Lat, ref.Lon, loc.Lat, loc.Lon)
		if criteria.RadiusKm != nil && d > *criteria.RadiusKm {
			continue
		}
		dist := d
		result = append(result, StationMatch{Station: s, DistanceKm: &dist})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return *result[i].DistanceKm < *result[j].DistanceKm
	})
	return result
}

// Nearest возвращает первую станцию из ApplyCriteria или false, если ничего не найдено
func Nearest(stations []*Station, criteria FilterCriteria) (StationMatch, bool) {
	matches := ApplyCriteria(stations, criteria)
	if len(matches) == 0 {
		return StationMatch{}, false
	}
	return matches[0], true
}

// SearchArea - круг для предварительной выборки кандидатов на стороне хранилища
type SearchArea struct {
	Center   GeoPoint
	RadiusKm float64
}

// SearchArea возвращает область поиска, если заданы и точка, и радиус
func (c FilterCriteria) SearchArea() *SearchArea {
	if c.ReferencePoint == nil || c.RadiusKm == nil {
		return nil
	}
	return &SearchArea{Center: *c.ReferencePoint, RadiusKm: *c.RadiusKm}
}
