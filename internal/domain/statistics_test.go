package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildCatalogStatistics(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stations := []*Station{
		newStation("1", 0, 0, "CCS, Type 2", "DC", "Evie"),
		newStation("2", 1, 1, "Type 2", CurrentTypeACSinglePhase, "Evie"),
		{ID: "3", CurrentType: "DC"},
		nil,
	}

	stats := BuildCatalogStatistics(stations, now)

	assert.Equal(t, int64(3), stats.TotalStations)
	assert.Equal(t, int64(2), stats.WithCoordinates)
	assert.Equal(t, int64(1), stats.WithoutCoordinates)
	assert.Equal(t, int64(2), stats.ByCurrentType["DC"])
	assert.Equal(t, int64(1), stats.ByCurrentType[CurrentTypeACSinglePhase])
	assert.Equal(t, int64(2), stats.ByConnectorType["Type 2"])
	assert.Equal(t, int64(1), stats.ByConnectorType["CCS"])
	assert.Equal(t, int64(1), stats.ByConnectorType["unknown"])
	assert.Equal(t, int64(2), stats.ByOperator["Evie"])
	assert.Equal(t, int64(1), stats.ByOperator["unknown"])
	assert.Equal(t, now, stats.GeneratedAt)
}

func TestBuildCatalogStatistics_TokensIgnoreCase(t *testing.T) {
	stations := []*Station{
		newStation("1", 0, 0, "CCS", "DC", "Chargefox"),
		newStation("2", 0, 0, "ccs, Type 2", "dc", "chargefox"),
		newStation("3", 0, 0, " Ccs ", "DC", "CHARGEFOX"),
	}

	stats := BuildCatalogStatistics(stations, time.Now())

	assert.Equal(t, map[string]int64{"CCS": 3, "Type 2": 1}, stats.ByConnectorType)
	assert.Equal(t, map[string]int64{"DC": 3}, stats.ByCurrentType)
	assert.Equal(t, map[string]int64{"Chargefox": 3}, stats.ByOperator)
}
