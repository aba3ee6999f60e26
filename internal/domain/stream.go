package domain

// Stream names (должны совпадать с потребителями результатов)
const (
	StreamChargerNearest     = "stream:charger:nearest"
	StreamChargerNearestDone = "stream:charger:nearest:done"
)

// NearestChargerEvent - входящее событие на поиск ближайшей станции
type NearestChargerEvent struct {
	RequestID string   `json:"request_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Connector string   `json:"connector,omitempty"`
	Current   string   `json:"current,omitempty"`
	Operator  string   `json:"operator,omitempty"`
	RadiusKm  *float64 `json:"radius_km,omitempty"`
}

// HasLocation проверяет, что в событии есть обе координаты
func (e *NearestChargerEvent) HasLocation() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// Criteria собирает критерии поиска из события
func (e *NearestChargerEvent) Criteria() FilterCriteria {
	criteria := CanonicalizeCriteria(RawCriteria{
		Connectors: []string{e.Connector},
		Currents:   []string{e.Current},
		Operators:  []string{e.Operator},
	})
	if e.HasLocation() {
		criteria = criteria.WithReferencePoint(*e.Latitude, *e.Longitude)
	}
	if e.RadiusKm != nil {
		criteria = criteria.WithRadius(*e.RadiusKm)
	}
	return criteria
}

// NearestChargerDoneEvent - результат поиска
type NearestChargerDoneEvent struct {
	RequestID  string   `json:"request_id"`
	Station    *Station `json:"station,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
