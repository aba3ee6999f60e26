package dto

import "github.com/charger-microservice/internal/domain"

// NearbyResponse - ответ POST /chargers/nearby
type NearbyResponse struct {
	Count    int                   `json:"count"`
	Chargers []domain.StationMatch `json:"chargers"`
}

// NewNearbyResponse оборачивает результат выборки
func NewNearbyResponse(matches []domain.StationMatch) *NearbyResponse {
	if matches == nil {
		matches = []domain.StationMatch{}
	}
	return &NearbyResponse{Count: len(matches), Chargers: matches}
}

// HealthResponse - ответ GET /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}
