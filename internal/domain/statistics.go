package domain

import (
	"strings"
	"time"
)

// CatalogStatistics - сводная статистика по каталогу станций
type CatalogStatistics struct {
	TotalStations      int64            `json:"total_stations"`
	WithCoordinates    int64            `json:"with_coordinates"`
	WithoutCoordinates int64            `json:"without_coordinates"`
	ByCurrentType      map[string]int64 `json:"by_current_type"`
	ByConnectorType    map[string]int64 `json:"by_connector_type"`
	ByOperator         map[string]int64 `json:"by_operator"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// BuildCatalogStatistics считает статистику по снимку каталога.
// Многозначные поля (через запятую) учитываются по каждому токену.
// Токены сравниваются без учёта регистра, как при фильтрации; ключом корзины
// становится первое встреченное написание.
func BuildCatalogStatistics(stations []*Station, now time.Time) *CatalogStatistics {
	stats := &CatalogStatistics{
		ByCurrentType:   make(map[string]int64),
		ByConnectorType: make(map[string]int64),
		ByOperator:      make(map[string]int64),
		GeneratedAt:     now.UTC(),
	}

	currents := newTokenCounter(stats.ByCurrentType)
	connectors := newTokenCounter(stats.ByConnectorType)
	operators := newTokenCounter(stats.ByOperator)

	for _, s := range stations {
		if s == nil {
			continue
		}
		stats.TotalStations++
		if _, ok := s.Location(); ok {
			stats.WithCoordinates++
		} else {
			stats.WithoutCoordinates++
		}
		currents.add(s.CurrentType)
		connectors.add(s.ConnectorType)
		operators.add(s.Operator)
	}

	return stats
}

type tokenCounter struct {
	counts map[string]int64
	keys   map[string]string
}

func newTokenCounter(counts map[string]int64) *tokenCounter {
	return &tokenCounter{counts: counts, keys: make(map[string]string)}
}

func (c *tokenCounter) add(field string) {
	tokens := SplitList(field)
	if len(tokens) == 0 {
		c.counts["unknown"]++
		return
	}
	for _, t := range tokens {
		folded := strings.ToLower(t)
		key, ok := c.keys[folded]
		if !ok {
			key = t
			c.keys[folded] = key
		}
		c.counts[key]++
	}
}
