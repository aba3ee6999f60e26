package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/charger-microservice/internal/domain"
	"github.com/charger-microservice/internal/domain/repository"
	"github.com/charger-microservice/internal/pkg/errors"
	"github.com/charger-microservice/internal/repository/postgres/testhelpers"
)

// StationRepositoryTestSuite тестирует StationRepository на реальной базе
type StationRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.StationRepository
	ctx    context.Context
}

func TestStationRepositoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(StationRepositoryTestSuite))
}

func textPtr(s string) *string {
	return &s
}

func (s *StationRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.ctx = context.Background()

	applied, err := testhelpers.ApplyMigrations(s.testDB.DB.DB, "../../../migrations")
	s.Require().NoError(err)
	s.Require().NotEmpty(applied)

	s.repo = testhelpers.NewStationRepositoryForTest(s.testDB.DB, s.testDB.Logger, true)
}

func (s *StationRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *StationRepositoryTestSuite) SetupTest() {
	s.Require().NoError(s.testDB.Cleanup(s.ctx))

	fixtures := []testhelpers.StationFixture{
		{ID: "melbourne", Latitude: textPtr("-37.8136"), Longitude: textPtr("144.9631"), Operator: "Chargefox", ConnectionType: "CCS", CurrentType: "DC"},
		{ID: "sydney", Latitude: textPtr("-33.8688"), Longitude: textPtr("151.2093"), Operator: "Evie", ConnectionType: "Type 2", CurrentType: "AC (Single-Phase)"},
		{ID: "broken", Latitude: textPtr("unknown"), Longitude: textPtr("144.9"), Operator: "Evie", ConnectionType: "Type 2", CurrentType: "AC (Three-Phase)"},
		{ID: "empty", Operator: "Tesla", ConnectionType: "Tesla", CurrentType: "DC"},
	}
	s.Require().NoError(testhelpers.InsertStations(s.ctx, s.testDB.DB, fixtures))
}

func (s *StationRepositoryTestSuite) TestFindCandidates_All() {
	stations, err := s.repo.FindCandidates(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(stations, 4)

	located := 0
	for _, st := range stations {
		if _, ok := st.Location(); ok {
			located++
		}
	}
	s.Equal(2, located)
}

func (s *StationRepositoryTestSuite) TestFindCandidates_PrefilterKeepsUnparseableRows() {
	area := &domain.SearchArea{Center: domain.GeoPoint{Lat: -37.81, Lon: 144.96}, RadiusKm: 20}

	stations, err := s.repo.FindCandidates(s.ctx, area)
	s.Require().NoError(err)

	ids := make([]string, 0, len(stations))
	for _, st := range stations {
		ids = append(ids, st.ID)
	}
	s.ElementsMatch([]string{"melbourne", "broken", "empty"}, ids)
}

func (s *StationRepositoryTestSuite) TestFindByID() {
	station, err := s.repo.FindByID(s.ctx, "sydney")
	s.Require().NoError(err)

	loc, ok := station.Location()
	s.Require().True(ok)
	s.InDelta(-33.8688, loc.Lat, 1e-9)
	s.Equal("Evie", station.Operator)
}

func (s *StationRepositoryTestSuite) TestFindByID_NotFound() {
	_, err := s.repo.FindByID(s.ctx, "nowhere")
	s.ErrorIs(err, errors.ErrStationNotFound)
}

func (s *StationRepositoryTestSuite) TestFindByIDs() {
	stations, err := s.repo.FindByIDs(s.ctx, []string{"sydney", "missing", "melbourne"})
	s.Require().NoError(err)
	s.Len(stations, 2)
	s.Equal("melbourne", stations[0].ID)
}
